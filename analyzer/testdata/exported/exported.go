package exported

type M struct {
	N int `stability:"mutable"`
}

//stableguard:composable
func Exported(m M) {} // want "Composable function 'Exported' is restartable but not skippable"

//stableguard:composable
func internal(m M) {}

//stableguard:stable
//stableguard:trace // want "misplaced directive"
type Theme interface{ Color() int } // want Theme:`markers\(00001\)`
