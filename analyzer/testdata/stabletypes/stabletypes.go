package stabletypes

import "test/theme"

//stableguard:composable
func Styled(s theme.Style) {}
