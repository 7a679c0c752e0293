package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/abhisek/derivacheck/internal/checker"
	"github.com/abhisek/derivacheck/internal/store"
)

func TestSaveAndDecode(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	rep, err := checker.Check(checker.Request{
		Mode:  "parametric",
		X:     "t**2",
		Y:     "t**3",
		Steps: []string{"2t", "3t**2", "2t/3"},
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	rec, err := Save(ctx, st.Events(), rep)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.CheckID != rep.ID || rec.Mode != "parametric" || rec.Steps != 3 || rec.Correct != 2 || rec.Passed {
		t.Errorf("unexpected record: %+v", rec.CheckEventData)
	}

	got, err := st.Events().GetCheck(ctx, rep.ID[:8])
	if err != nil || got == nil {
		t.Fatalf("get check: %v, %v", got, err)
	}
	decoded, err := Decode(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != rep.ID || len(decoded.Verdicts) != 3 {
		t.Fatalf("decoded report = %+v", decoded)
	}
	if v := decoded.Verdicts[2]; v.Kind != checker.Incorrect || v.Correction.String() != "3*t/2" {
		t.Errorf("verdict 2 = %+v", v)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode(&store.CheckRecord{ID: 7, CheckEventData: store.CheckEventData{Report: []byte(`{"expected":[{"expr":"(("}]}`)}})
	if err == nil {
		t.Fatal("expected an error for an unparseable stored expression")
	}
}
