package cmd

import (
	"strings"
	"testing"
)

func resetAddFlags() {
	addDate, addFrom, addTo = "", "", ""
	addKey, addNote, addInvoice = "", "", ""
}

func TestAddEntry_Success(t *testing.T) {
	ct := setupCmdTest(t)
	t.Cleanup(resetAddFlags)

	addDate, addFrom, addTo = "1/15/2025", "9:00 AM", "9:52 AM"
	addEntry([]string{"Acme"})

	out := ct.stdout.String()
	if !strings.Contains(out, "Added entry 1 for Acme: 52m worked, 45m billed (0.75 h)") {
		t.Errorf("output = %s", out)
	}
	if ct.exitCalled {
		t.Errorf("unexpected exit, stderr: %s", ct.stderr.String())
	}
}

func TestAddEntry_BadClock(t *testing.T) {
	ct := setupCmdTest(t)
	t.Cleanup(resetAddFlags)

	addDate, addFrom, addTo = "1/15/2025", "nine", "10"
	addEntry([]string{"Acme"})

	if !ct.exitCalled {
		t.Error("expected exit for bad clock time")
	}
	if !strings.Contains(ct.stderr.String(), "Failed to add entry") {
		t.Errorf("stderr = %s", ct.stderr.String())
	}
	if !strings.Contains(ct.stderr.String(), "Hint:") {
		t.Errorf("expected usage hint, got: %s", ct.stderr.String())
	}
}

func TestShowEntry(t *testing.T) {
	ct := setupCmdTest(t)
	t.Cleanup(resetAddFlags)

	addDate, addFrom, addTo = "1/15/2025", "9:00 AM", "9:52 AM"
	addNote, addInvoice = "onsite visit", "INV-9"
	addEntry([]string{"Acme"})
	ct.stdout.Reset()

	showEntry([]string{"1"})

	out := ct.stdout.String()
	for _, want := range []string{"Entry 1", "Acme (acme)", "52m raw, 45m billed (0.75 h)", "INV-9", "onsite visit"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestShowEntry_BadID(t *testing.T) {
	ct := setupCmdTest(t)

	showEntry([]string{"abc"})

	if !ct.exitCalled {
		t.Error("expected exit for non-numeric id")
	}
	if !strings.Contains(ct.stderr.String(), "Invalid entry id") {
		t.Errorf("stderr = %s", ct.stderr.String())
	}
}

func TestShowEntry_Missing(t *testing.T) {
	ct := setupCmdTest(t)

	showEntry([]string{"404"})

	if !ct.exitCalled {
		t.Error("expected exit for missing entry")
	}
	if !strings.Contains(ct.stderr.String(), "No entry with id 404") {
		t.Errorf("stderr = %s", ct.stderr.String())
	}
}
