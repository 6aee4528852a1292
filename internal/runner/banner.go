package runner

import (
	"github.com/homebox/lanmap/pkg/version"
	"github.com/projectdiscovery/gologger"
)

var banner = `
    __
   / /___ _____  ____ ___  ____ _____
  / / __ ` + "`" + `/ __ \/ __ ` + "`" + `__ \/ __ ` + "`" + `/ __ \
 / / /_/ / / / / / / / / / /_/ / /_/ /
/_/\__,_/_/ /_/_/ /_/ /_/\__,_/ .___/
                             /_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s%s\n", banner, version.Version)
	gologger.Print().Msgf("\t\thomebox project\n\n")
}
