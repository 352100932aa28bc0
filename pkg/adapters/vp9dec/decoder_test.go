package vp9dec

import "testing"

func TestName(t *testing.T) {
	if got := New().Name(); got != "vp9" {
		t.Errorf("Name() = %q, want %q", got, "vp9")
	}
}

// The libvpx shared library may or may not be installed where tests run,
// so only the contract between Available and NewSession is checked.
func TestSessionMatchesAvailability(t *testing.T) {
	lib := New()
	sess, err := lib.NewSession()
	if lib.Available() {
		if err != nil {
			t.Fatalf("NewSession() failed despite Available(): %v", err)
		}
		if err := sess.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	} else {
		if err == nil {
			t.Fatal("NewSession() succeeded but Available() is false")
		}
	}
}
