package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/metatile/engine"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <project>",
		Short: "Report tileset sizes, free slots and map size",
		Long: `The info command loads a project and displays the tileset pair, the
number of metatile slots, how many are free for new composites, and the map size.

Example:
  metatilectl info route1.json
  metatilectl info route1.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type projectInfo struct {
	Path      string       `json:"path"`
	Name      string       `json:"name"`
	Primary   tilesetInfo  `json:"primary"`
	Secondary tilesetInfo  `json:"secondary"`
	Width     int          `json:"width"`
	Height    int          `json:"height"`
	Engine    engine.Stats `json:"engine"`
}

type tilesetInfo struct {
	Name      string `json:"name"`
	Metatiles int    `json:"metatiles"`
}

func runInfo(args []string) error {
	s, err := openSession(args[0], false, nil)
	if err != nil {
		return err
	}
	defer s.close()

	info := projectInfo{
		Path:      s.path,
		Name:      s.file.Name,
		Primary:   tilesetInfo{s.file.Primary.Name, s.host.NumPrimaryMetatiles()},
		Secondary: tilesetInfo{s.file.Secondary.Name, s.host.NumSecondaryMetatiles()},
		Width:     s.host.Width(),
		Height:    s.host.Height(),
		Engine:    s.eng.Stats(),
	}

	if jsonOut {
		return printJSON(info)
	}

	heading("Project Information:")
	field("File", info.Path)
	field("Name", info.Name)
	field("Primary", printer.Sprintf("%s (%d metatiles)", info.Primary.Name, info.Primary.Metatiles))
	field("Secondary", printer.Sprintf("%s (%d metatiles)", info.Secondary.Name, info.Secondary.Metatiles))
	field("Map", printer.Sprintf("%d x %d", info.Width, info.Height))

	heading("Slots:")
	field("Total", printer.Sprintf("%d", info.Engine.MaxMetatiles))
	field("Free", printer.Sprintf("%d", info.Engine.FreeSlots))
	field("Protected", printer.Sprintf("%d", info.Engine.Protected))
	field("Search start", int(info.Engine.SearchStart))
	field("Matcher", info.Engine.Matcher)
	return nil
}
