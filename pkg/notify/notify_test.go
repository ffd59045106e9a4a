package notify_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storeadmin/pkg/notify"
)

func TestRecorder(t *testing.T) {
	var rec notify.Recorder
	if _, ok := rec.Last(); ok {
		t.Fatalf("empty recorder should have no last notification")
	}
	rec.Notify(notify.Success("Billboard created"))
	rec.Notify(notify.Failure("Error saving stored data."))

	want := []notify.Notification{
		{Level: notify.LevelSuccess, Message: "Billboard created"},
		{Level: notify.LevelError, Message: "Error saving stored data."},
	}
	if diff := cmp.Diff(want, rec.All()); diff != "" {
		t.Fatalf("recorded mismatch (-want +got):\n%s", diff)
	}
	rec.Reset()
	if len(rec.All()) != 0 {
		t.Fatalf("reset did not clear recorder")
	}
}

func TestFlashStorePushPop(t *testing.T) {
	store := notify.NewFlashStore()
	key := store.NewKey()

	n := store.Notifier(key)
	n.Notify(notify.Success("Size created"))
	n.Notify(notify.Success("Size updated"))

	got := store.Pop(key)
	want := []notify.Notification{notify.Success("Size created"), notify.Success("Size updated")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("flash mismatch (-want +got):\n%s", diff)
	}
	if again := store.Pop(key); again != nil {
		t.Fatalf("flash should be consumed, got %v", again)
	}
}

func TestFlashStoreExpires(t *testing.T) {
	store := notify.NewFlashStore(notify.WithFlashTTL(10 * time.Millisecond))
	store.Push("k", notify.Success("gone"))
	time.Sleep(30 * time.Millisecond)
	if got := store.Pop("k"); got != nil {
		t.Fatalf("expected expired flash, got %v", got)
	}
}
