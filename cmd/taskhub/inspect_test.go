package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/taskhub/internal/domain/models"
)

func TestPrintUsers_Table(t *testing.T) {
	users := []models.User{
		{ID: "u1", Name: "alice", DisplayName: "Alice", CreationTime: models.Now()},
		{ID: "u2", Name: "bob"},
	}
	var buf bytes.Buffer
	if err := printUsers(&buf, "", users); err != nil {
		t.Fatalf("printUsers failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"DISPLAY NAME", "alice", "Alice", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintBoards_JSON(t *testing.T) {
	boards := []models.Board{{ID: "b1", Name: "Sprint", Tasks: []models.Task{}}}
	var buf bytes.Buffer
	if err := printBoards(&buf, "json", boards); err != nil {
		t.Fatalf("printBoards failed: %v", err)
	}
	var got []models.Board
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Sprint" {
		t.Errorf("got %+v", got)
	}
}

func TestPrint_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := printTeams(&buf, "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStatusSummary(t *testing.T) {
	tasks := []models.Task{
		{Status: models.StatusToDo},
		{Status: models.StatusDone},
		{Status: models.StatusToDo},
	}
	if got, want := statusSummary(tasks), "To-Do=2 In-Progress=0 Done=1"; got != want {
		t.Errorf("statusSummary = %q, want %q", got, want)
	}
}

func TestInspectCommand_ReadsCollections(t *testing.T) {
	dir := t.TempDir()
	users := `{"u1":{"id":"u1","name":"alice","display_name":"Alice","creation_time":"2024-01-02T03:04:05"}}`
	if err := os.WriteFile(filepath.Join(dir, "users.json"), []byte(users), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"teams.json", "boards.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"inspect", "users", "--data_dir", dir, "-o", "json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("inspect users failed: %v", err)
	}

	var got []models.User
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 1 || got[0].Name != "alice" {
		t.Errorf("got %+v", got)
	}
}

func TestInspectCommand_MissingFilesAreNotCreated(t *testing.T) {
	dir := t.TempDir()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"inspect", "teams", "--data_dir", dir})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error when the collection files do not exist")
	}
	if _, err := os.Stat(filepath.Join(dir, "teams.json")); !os.IsNotExist(err) {
		t.Errorf("teams.json should not have been created: %v", err)
	}
}

func TestConfigCommand_PrintsYAML(t *testing.T) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"config", "--http_addr", ":9191", "--env", "test"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"http_addr:", "9191", "env: test", "timeout_shutdown: 10s"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}
