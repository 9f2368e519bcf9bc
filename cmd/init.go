package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/poimap-cli/internal/project"
	"github.com/KaramelBytes/poimap-cli/internal/utils"
)

var (
	initDescription string
	initZoom        int
)

var initCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Initialize a new map project",
	Long: `Create an empty map project under the projects directory.

The project directory holds project.json and points.db, the SQLite store
that datasets added with 'poimap add' are normalized into.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if isPathArg(name) {
			return fmt.Errorf("project name %q must not be a path", name)
		}
		root, err := defaultProjectsDir()
		if err != nil {
			return err
		}
		projDir := filepath.Join(root, name)
		if err := checkFreeProjectDir(projDir); err != nil {
			return err
		}
		p := project.NewProject(name, initDescription, projDir)
		if initZoom > 0 {
			p.Config.Zoom = initZoom
		}
		// Save creates the directory.
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Project initialized: %s\n", projDir)
		return nil
	},
}

// checkFreeProjectDir accepts a missing or empty directory. An existing
// project or a directory with other files is never taken over.
func checkFreeProjectDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("stat project directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%s exists and is not a directory", dir)
	case utils.IsProjectDir(dir):
		return fmt.Errorf("project already exists at %s", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("inspect project directory: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("directory %s is not empty; refusing to initialize project", dir)
	}
	return nil
}

// defaultProjectsDir returns the configured projects directory, creating it.
func defaultProjectsDir() (string, error) {
	dir := filepath.Join("~", ".poimap", "projects")
	if cfg != nil && cfg.ProjectsDir != "" {
		dir = cfg.ProjectsDir
	}
	dir, err := expandHome(dir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func expandHome(dir string) (string, error) {
	if !strings.HasPrefix(dir, "~") {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	rest := strings.TrimLeft(strings.TrimPrefix(dir, "~"), `/\`)
	return filepath.Join(home, rest), nil
}

func isPathArg(name string) bool {
	return name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, os.PathSeparator)
}

// resolveProjectDirByName maps a project name to its directory. A path
// (".", "./x", "/abs/dir", a dataset file) resolves to the enclosing project.
func resolveProjectDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("project name is required")
	}
	if isPathArg(name) {
		return utils.FindProjectRoot(name)
	}
	root, err := defaultProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "project description")
	initCmd.Flags().IntVar(&initZoom, "zoom", 0, "initial map zoom for the project view")
}
