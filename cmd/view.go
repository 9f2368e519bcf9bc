package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/project"
	"github.com/KaramelBytes/poimap-cli/internal/utils"
)

var (
	viewProject string
	viewOutput  string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Build the map view (layers, center, dataset switcher) of a project as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if viewProject == "" {
			return fmt.Errorf("--project is required")
		}
		dir, err := resolveProjectDirByName(viewProject)
		if err != nil {
			return err
		}
		p, err := project.LoadProject(dir)
		if err != nil {
			return err
		}
		v, err := p.BuildView(commandContext(cmd))
		if err != nil {
			return err
		}
		data, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		if viewOutput == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := utils.SafeWriteFile(viewOutput, data); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote view with %d layers to %s\n", len(v.Layers), viewOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVarP(&viewProject, "project", "p", "", "project name")
	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "", "write the view JSON to this path")
}
