package common

import (
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner
func PrintBanner(version string) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorGreen).
		SetBold(true).
		SetWidth(60)

	b.PrintTopLine()
	b.PrintCenteredText("DERNEK")
	b.PrintCenteredText("Site settings and content store")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 10)
	b.PrintBottomLine()
}
