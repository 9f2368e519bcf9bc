package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/project"
)

var (
	pmProject string
	pmClear   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage project datasets and settings",
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <dataset>",
	Short: "Remove a dataset (by id, id prefix, label or file name) and its points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProjectFlag()
		if err != nil {
			return err
		}
		e, err := p.RemoveDataset(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Removed dataset %s from %s\n", e.DisplayName(), pmProject)
		return nil
	},
}

var projectSetZoomCmd = &cobra.Command{
	Use:   "set-zoom <zoom>",
	Short: "Set or clear a project's initial map zoom",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProjectFlag()
		if err != nil {
			return err
		}
		if pmClear {
			p.Config.Zoom = 0
		} else {
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("zoom is required unless --clear is set")
			}
			z, err := strconv.Atoi(args[0])
			if err != nil || z < 1 || z > 22 {
				return fmt.Errorf("invalid zoom: %s (use 1-22)", args[0])
			}
			p.Config.Zoom = z
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Printf("✓ Cleared project zoom for %s\n", pmProject)
		} else {
			fmt.Printf("✓ Set project zoom for %s: %d\n", pmProject, p.Config.Zoom)
		}
		return nil
	},
}

func loadProjectFlag() (*project.Project, error) {
	if pmProject == "" {
		return nil, fmt.Errorf("--project is required")
	}
	dir, err := resolveProjectDirByName(pmProject)
	if err != nil {
		return nil, err
	}
	p, err := project.LoadProject(dir)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectRemoveCmd)
	projectCmd.AddCommand(projectSetZoomCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name")
	projectSetZoomCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the project's zoom override")
}
