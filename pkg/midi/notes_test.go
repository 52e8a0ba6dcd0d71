package midi

import "testing"

func TestExternalNoteQueueAppendAndDrain(t *testing.T) {
	q := NewExternalNoteQueue(4)

	for i := 0; i < 4; i++ {
		if !q.Append(ExternalNote{Channel: 0, Note: uint8(60 + i), Velocity: 100}) {
			t.Fatalf("Append %d rejected below capacity", i)
		}
	}
	if q.Append(ExternalNote{Note: 99}) {
		t.Error("Append accepted beyond capacity")
	}
	if q.Len() != 4 {
		t.Errorf("Len = %d, want 4", q.Len())
	}

	dst := make([]ExternalNote, 8)
	n, ok := q.TryDrain(dst)
	if !ok || n != 4 {
		t.Fatalf("TryDrain = (%d, %v), want (4, true)", n, ok)
	}
	for i := 0; i < 4; i++ {
		if dst[i].Note != uint8(60+i) {
			t.Errorf("dst[%d].Note = %d, want %d", i, dst[i].Note, 60+i)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}
}

func TestExternalNoteQueuePartialDrainKeepsRemainder(t *testing.T) {
	q := NewExternalNoteQueue(8)
	for i := 0; i < 5; i++ {
		q.Append(ExternalNote{Note: uint8(i)})
	}

	dst := make([]ExternalNote, 3)
	n, ok := q.TryDrain(dst)
	if !ok || n != 3 {
		t.Fatalf("TryDrain = (%d, %v), want (3, true)", n, ok)
	}
	if q.Len() != 2 {
		t.Fatalf("Len = %d, want 2", q.Len())
	}

	n, ok = q.TryDrain(dst)
	if !ok || n != 2 {
		t.Fatalf("second TryDrain = (%d, %v), want (2, true)", n, ok)
	}
	if dst[0].Note != 3 || dst[1].Note != 4 {
		t.Errorf("remainder = %d %d, want 3 4", dst[0].Note, dst[1].Note)
	}
}

func TestExternalNoteQueueTryDrainContended(t *testing.T) {
	q := NewExternalNoteQueue(8)
	q.Append(ExternalNote{Note: 60})

	dst := make([]ExternalNote, 8)
	q.WithLock(func() {
		if n, ok := q.TryDrain(dst); ok || n != 0 {
			t.Errorf("TryDrain under held lock = (%d, %v), want (0, false)", n, ok)
		}
	})

	if n, ok := q.TryDrain(dst); !ok || n != 1 {
		t.Errorf("TryDrain after release = (%d, %v), want (1, true)", n, ok)
	}
}

func TestExternalNoteQueueClear(t *testing.T) {
	q := NewExternalNoteQueue(8)
	q.Append(ExternalNote{Note: 1})
	q.Append(ExternalNote{Note: 2})
	q.Clear()
	if q.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", q.Len())
	}
}
