package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/project"
)

var (
	addProjectName string
	addLabel       string
	addLoad        loadFlags
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Normalize a dataset and add it to a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if addProjectName == "" {
			return fmt.Errorf("--project is required")
		}
		projDir, err := resolveProjectDirByName(addProjectName)
		if err != nil {
			return err
		}
		p, err := project.LoadProject(projDir)
		if err != nil {
			return err
		}
		opt, err := addLoad.options()
		if err != nil {
			return err
		}
		e, err := p.AddDataset(commandContext(cmd), file, addLabel, opt)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Dataset added: %s (%d points", filepath.Base(file), e.Points)
		if e.Stats.DroppedRows > 0 {
			fmt.Printf(", %d rows dropped", e.Stats.DroppedRows)
		}
		fmt.Println(")")
		if e.Points == 0 {
			fmt.Println("⚠ Dataset has no usable coordinates; its layer will be empty")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addProjectName, "project", "p", "", "project name")
	addCmd.Flags().StringVar(&addLabel, "label", "", "dataset label shown in the map switcher (default: file name)")
	addLoad.register(addCmd)
}
