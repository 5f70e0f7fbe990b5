package profile

type M struct {
	Name string `stability:"mutable"`
}

//stableguard:composable
func Profile(m M) {} // want "Composable function 'Profile' is restartable but not skippable"
