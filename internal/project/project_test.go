package project_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/poimap-cli/internal/pipeline"
	"github.com/KaramelBytes/poimap-cli/internal/project"
	"github.com/KaramelBytes/poimap-cli/internal/store"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAddDatasetsAndBuildView(t *testing.T) {
	tdir := t.TempDir()
	ctx := context.Background()
	rio := writeCSV(t, tdir, "rio.csv", "lat,lon,custo,nome\n-22.9,-43.2,10,A\n-22.7,-43.0,30,B\n")
	sp := writeCSV(t, tdir, "sp.csv", "Latitude,Longitude\n-23.5,-46.6\n")

	proj := project.NewProject("brazil", "", filepath.Join(tdir, "proj"))
	if _, err := proj.AddDataset(ctx, rio, "Rio", pipeline.DefaultOptions()); err != nil {
		t.Fatalf("add rio: %v", err)
	}
	e, err := proj.AddDataset(ctx, sp, "", pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("add sp: %v", err)
	}
	if e.DisplayName() != "sp.csv" || e.Points != 1 || e.Stats.NamesSynthesized != 1 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if _, err := proj.AddDataset(ctx, sp, "Rio", pipeline.DefaultOptions()); err == nil {
		t.Fatalf("expected duplicate label error")
	}
	if err := proj.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := project.LoadProject(proj.RootDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Datasets) != 2 || loaded.Datasets[0].Label != "Rio" {
		t.Fatalf("unexpected datasets: %+v", loaded.Datasets)
	}
	v, err := loaded.BuildView(ctx)
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if len(v.Layers) != 2 || v.Layers[0].Title != "Rio - Points" || v.Layers[1].Title != "sp.csv - Points" {
		t.Fatalf("unexpected layers: %+v", v.Layers)
	}
	if v.Center.Lat > -22.79 || v.Center.Lat < -22.81 {
		t.Fatalf("view should center on first dataset: %+v", v.Center)
	}
	if v.Layers[0].Markers[1].Size != 26 {
		t.Fatalf("unexpected size: %+v", v.Layers[0].Markers[1])
	}
}

func TestRemoveDataset(t *testing.T) {
	tdir := t.TempDir()
	ctx := context.Background()
	rio := writeCSV(t, tdir, "rio.csv", "lat,lon\n1,2\n")
	proj := project.NewProject("p", "", filepath.Join(tdir, "proj"))
	e, err := proj.AddDataset(ctx, rio, "", pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if proj.FindDataset(e.ID[:8]) != e {
		t.Fatalf("expected lookup by id prefix")
	}
	if _, err := proj.RemoveDataset(ctx, "rio.csv"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(proj.Datasets) != 0 {
		t.Fatalf("expected no datasets")
	}
	if _, err := proj.RemoveDataset(ctx, "rio.csv"); err == nil {
		t.Fatalf("expected not found error")
	}
	if _, err := proj.BuildView(ctx); err == nil {
		t.Fatalf("expected error for empty project")
	}
}

func TestAddDatasetSchemaError(t *testing.T) {
	tdir := t.TempDir()
	bad := writeCSV(t, tdir, "bad.csv", "a,b\n1,2\n")
	proj := project.NewProject("p", "", filepath.Join(tdir, "proj"))
	if _, err := proj.AddDataset(context.Background(), bad, "", pipeline.DefaultOptions()); err == nil {
		t.Fatalf("expected schema error")
	}
	if len(proj.Datasets) != 0 {
		t.Fatalf("failed add must not register a dataset")
	}
}

func TestAddDatasetLabelMayLookLikeIDPrefix(t *testing.T) {
	tdir := t.TempDir()
	ctx := context.Background()
	first := writeCSV(t, tdir, "a.csv", "lat,lon\n1,2\n")
	second := writeCSV(t, tdir, "b.csv", "lat,lon\n3,4\n")
	proj := project.NewProject("p", "", filepath.Join(tdir, "proj"))
	e, err := proj.AddDataset(ctx, first, "", pipeline.DefaultOptions())
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	label := e.ID[:1]
	if _, err := proj.AddDataset(ctx, second, label, pipeline.DefaultOptions()); err != nil {
		t.Fatalf("label %q matching an id prefix should be accepted: %v", label, err)
	}
	if _, err := proj.AddDataset(ctx, second, "a.csv", pipeline.DefaultOptions()); err == nil {
		t.Fatalf("label equal to an unlabeled dataset's file name should be rejected")
	}
}

func TestAddDatasetRollsBackStoreWhenSaveFails(t *testing.T) {
	tdir := t.TempDir()
	ctx := context.Background()
	in := writeCSV(t, tdir, "rio.csv", "lat,lon\n1,2\n")
	root := filepath.Join(tdir, "proj")
	// A directory in place of project.json makes the atomic rename fail.
	if err := os.MkdirAll(filepath.Join(root, "project.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	proj := project.NewProject("p", "", root)
	if _, err := proj.AddDataset(ctx, in, "Rio", pipeline.DefaultOptions()); err == nil {
		t.Fatalf("expected save error")
	}
	if len(proj.Datasets) != 0 {
		t.Fatalf("entry should not remain after failed save: %+v", proj.Datasets)
	}
	db, err := store.Open(proj.StorePath())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()
	list, err := db.ListDatasets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("stored points should be rolled back, found %d datasets", len(list))
	}
}

func TestRemoveDatasetPersists(t *testing.T) {
	tdir := t.TempDir()
	ctx := context.Background()
	in := writeCSV(t, tdir, "rio.csv", "lat,lon\n1,2\n")
	proj := project.NewProject("p", "", filepath.Join(tdir, "proj"))
	if _, err := proj.AddDataset(ctx, in, "Rio", pipeline.DefaultOptions()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := proj.RemoveDataset(ctx, "Rio"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	loaded, err := project.LoadProject(proj.RootDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Datasets) != 0 {
		t.Fatalf("removal not saved: %+v", loaded.Datasets)
	}
}
