package a

import "test/theme"

type S struct{ Name string }

type M struct {
	Name string `stability:"mutable"`
}

type Card struct{ Title string }

type Editor struct {
	Text []byte
}

//stableguard:composable
func Title(s S, p theme.Palette) {}

//stableguard:composable
func Profile(m M) {} // want "Composable function 'Profile' is restartable but not skippable"

//stableguard:composable
func Styled(s theme.Style) {} // want "Composable function 'Styled' is restartable but not skippable"

//stableguard:composable
//stableguard:nonrestartable
func Static(m M) {}

//stableguard:composable
//stableguard:ignore
func Debug(m M) {}

//stableguard:composable
func Quiet(m M) { //nolint:stableguard
}

//stableguard:composable
func (c Card) Render(width int) {}

//stableguard:composable
func (e *Editor) Render() {} // want "Composable function 'Render' is restartable but not skippable"

//stableguard:composible // want "Invalid directive"
func typo() {}

func plain(m M) {}
