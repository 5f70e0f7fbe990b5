package profile

type M struct{ Name string }

//stableguard:composable
func Profile(m M) {}
