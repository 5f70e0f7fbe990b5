package theme

//stableguard:stable
type Palette interface{ Primary() int }

type Style interface{ Weight() int }
