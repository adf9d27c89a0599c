package tui

import (
	"errors"
	"testing"
)

func TestConfirmMock(t *testing.T) {
	defer ClearMock()

	var gotTitle, gotDesc string
	SetMock(&MockPrompts{ConfirmFunc: func(title, description string) (bool, error) {
		gotTitle, gotDesc = title, description
		return true, nil
	}})

	ok, err := Confirm("Write changes?", "backup kept")
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if gotTitle != "Write changes?" || gotDesc != "backup kept" {
		t.Errorf("prompt got %q / %q", gotTitle, gotDesc)
	}

	wantErr := errors.New("aborted")
	SetMock(&MockPrompts{ConfirmFunc: func(string, string) (bool, error) { return false, wantErr }})
	if _, err := Confirm("x", ""); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestDisableColor(t *testing.T) {
	DisableColor()
	for name, render := range map[string]func(string) string{
		"Header": Header, "Success": Success, "Warning": Warning, "Error": Error,
		"Muted": Muted, "Key": Key, "Label": Label,
	} {
		if got := render("text"); got != "text" {
			t.Errorf("%s(%q) = %q, want plain text", name, "text", got)
		}
	}
}
