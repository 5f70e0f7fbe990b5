package fix

//stableguard:trace tag=header // want "Trace directive on a function that is not composable"
func Header(title string) {}
