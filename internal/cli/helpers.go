package cli

import (
	"fmt"

	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/readiness"
)

func printReadiness(ready bool, gates []readiness.Gate) {
	for _, g := range gates {
		fmt.Printf("  %s %s %s\n", formatter.GatePill(g.OK), g.Label, formatter.Dim(g.ID))
	}
	if ready {
		fmt.Println(formatter.StyleGreen.Render("Ready for generation"))
	} else {
		fmt.Println(formatter.StyleRed.Render("Not ready"))
	}
}
