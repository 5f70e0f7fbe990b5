package strong

type M struct {
	N int `stability:"mutable"`
}

//stableguard:composable
func Profile(m M) {}

//stableguard:composable
//stableguard:trace threshold=2
func Traced(m M, items []string) {}
