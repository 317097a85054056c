package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/metatilekit/internal/project"
)

var (
	initPrimary   int
	initSecondary int
	initWidth     int
	initHeight    int
	initName      string
	initForce     bool
)

func init() {
	cmd := newInitCmd()
	cmd.Flags().IntVar(&initPrimary, "primary", 512, "Metatiles in the primary tileset")
	cmd.Flags().IntVar(&initSecondary, "secondary", 512, "Metatiles in the secondary tileset")
	cmd.Flags().IntVar(&initWidth, "width", 20, "Map width in blocks")
	cmd.Flags().IntVar(&initHeight, "height", 20, "Map height in blocks")
	cmd.Flags().StringVar(&initName, "name", "", "Project name (default: file name)")
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing project")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <project>",
		Short: "Create an empty project",
		Long: `The init command writes a new project with blank tilesets and a map
filled with metatile 0.

Example:
  metatilectl init route1.json
  metatilectl init route1.json --primary 640 --secondary 384 --width 32 --height 24`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
}

func runInit(args []string) error {
	path := args[0]

	if initPrimary < 0 || initSecondary < 0 || initPrimary+initSecondary == 0 {
		return fmt.Errorf("tilesets need at least one metatile, got %d+%d", initPrimary, initSecondary)
	}
	if initWidth < 0 || initHeight < 0 {
		return fmt.Errorf("invalid map size %dx%d", initWidth, initHeight)
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	name := initName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	f := project.New(name, initPrimary, initSecondary, initWidth, initHeight)
	if err := project.Save(path, f); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"path":          path,
			"name":          name,
			"max_metatiles": initPrimary + initSecondary,
			"width":         initWidth,
			"height":        initHeight,
		})
	}
	printInfo("%s Created %s (%d metatiles, %dx%d map)\n",
		render(successStyle, "✓"), path, initPrimary+initSecondary, initWidth, initHeight)
	return nil
}
