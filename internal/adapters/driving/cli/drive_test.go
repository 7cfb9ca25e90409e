package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/worklink/internal/console"
	"github.com/custodia-labs/worklink/internal/core/domain"
)

func TestDriveCmd_HasSubcommands(t *testing.T) {
	commands := driveCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "find")
	assert.Contains(t, commandNames, "delete")
}

func TestDriveFindCmd_PrintsID(t *testing.T) {
	setupDriveService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files": [{"id": "file-1", "name": "Report", "mimeType": "application/vnd.google-apps.spreadsheet"}]}`)
	}))

	out, err := executeCommand(t, "drive", "find", "Report")

	assert.NoError(t, err)
	assert.Contains(t, out, "file-1")
}

func TestDriveFindCmd_NotFound(t *testing.T) {
	setupDriveService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files": []}`)
	}))

	_, err := executeCommand(t, "drive", "find", "Nothing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDriveFindCmd_AmbiguousListsCandidates(t *testing.T) {
	silenceConsole(t)
	setupDriveService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"files": [
			{"id": "file-1", "name": "Report", "mimeType": "application/vnd.google-apps.spreadsheet"},
			{"id": "file-2", "name": "Report", "mimeType": "application/vnd.google-apps.document"}
		]}`)
	}))

	out, err := executeCommand(t, "drive", "find", "Report")

	assert.ErrorIs(t, err, domain.ErrAmbiguous)
	assert.Contains(t, out, "file-1")
	assert.Contains(t, out, "file-2")
}

func TestDriveDeleteCmd_RequiresNameOrID(t *testing.T) {
	_, err := executeCommand(t, "drive", "delete")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDriveDeleteCmd_DeclinedConfirmation(t *testing.T) {
	console.SetOutput(io.Discard)
	console.SetInput(strings.NewReader("no\n"))
	t.Cleanup(func() {
		console.SetOutput(os.Stdout)
		console.SetInput(os.Stdin)
	})

	deleted := false
	setupDriveService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = true
		}
		fmt.Fprint(w, `{"id": "file-1", "name": "Report"}`)
	}))

	_, err := executeCommand(t, "drive", "delete", "--id", "file-1")
	defer func() { driveDeleteID = "" }()

	assert.ErrorIs(t, err, domain.ErrConfirmationDeclined)
	assert.False(t, deleted)
}

func TestDriveDeleteCmd_Confirmed(t *testing.T) {
	console.SetOutput(io.Discard)
	console.SetInput(strings.NewReader("yes\n"))
	t.Cleanup(func() {
		console.SetOutput(os.Stdout)
		console.SetInput(os.Stdin)
	})

	deleted := false
	setupDriveService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		fmt.Fprint(w, `{"id": "file-1", "name": "Report"}`)
	}))

	_, err := executeCommand(t, "drive", "delete", "--id", "file-1")
	defer func() { driveDeleteID = "" }()

	assert.NoError(t, err)
	assert.True(t, deleted)
}
