package forms

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  string
	}{
		{"required blank", Field{Name: "n", Required: true}, "   ", MsgRequired},
		{"optional blank", Field{Name: "n"}, "", ""},
		{"text ok", Field{Name: "n", Required: true}, "Ana", ""},
		{"email ok", Field{Name: "e", Kind: Email}, "ana@example.org", ""},
		{"email trimmed", Field{Name: "e", Kind: Email}, "  ana@example.org ", ""},
		{"email no at", Field{Name: "e", Kind: Email}, "ana.example.org", MsgInvalidEmail},
		{"email no dot", Field{Name: "e", Kind: Email}, "ana@example", MsgInvalidEmail},
		{"email space", Field{Name: "e", Kind: Email}, "a na@example.org", MsgInvalidEmail},
		{"email nbsp", Field{Name: "e", Kind: Email}, "a\u00a0na@example.org", MsgInvalidEmail},
		{"email ideographic space", Field{Name: "e", Kind: Email}, "ana@exa\u3000mple.org", MsgInvalidEmail},
		{"email bom", Field{Name: "e", Kind: Email}, "ana@example.\ufefforg", MsgInvalidEmail},
		{"phone ok", Field{Name: "p", Kind: Phone}, "(32) 99999-0000", ""},
		{"phone intl", Field{Name: "p", Kind: Phone}, "+55 32 3371 0000", ""},
		{"phone nbsp", Field{Name: "p", Kind: Phone}, "+55\u00a032\u00a03371\u00a00000", ""},
		{"phone short", Field{Name: "p", Kind: Phone}, "12345", MsgInvalidPhone},
		{"phone letters", Field{Name: "p", Kind: Phone}, "call me maybe", MsgInvalidPhone},
		{"optional phone invalid", Field{Name: "p", Kind: Phone}, "abc", MsgInvalidPhone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.field, tt.value)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("ValidateField = %v, want nil", err)
				}
				return
			}
			var fe FieldError
			if !errors.As(err, &fe) || fe.Message != tt.want || fe.Field != tt.field.Name {
				t.Fatalf("ValidateField = %v, want %s on %s", err, tt.want, tt.field.Name)
			}
		})
	}
}

func TestForm_ValidateOrder(t *testing.T) {
	errs := Contact.Validate(Values{"email": "bad", "phone": "1"})
	want := []string{"name", "email", "phone", "message"}
	if len(errs) != len(want) {
		t.Fatalf("Validate returned %d errors, want %d: %v", len(errs), len(want), errs)
	}
	for i, name := range want {
		if errs[i].Field != name {
			t.Fatalf("errs[%d].Field = %q, want %q", i, errs[i].Field, name)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, f := range Catalog() {
		got, ok := Lookup(f.ID)
		if !ok || got.ID != f.ID {
			t.Fatalf("Lookup(%q) = %v, %v", f.ID, got.ID, ok)
		}
		if _, ok := f.Field(f.Fields[0].Name); !ok {
			t.Fatalf("Field(%q) not found in %s", f.Fields[0].Name, f.ID)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("Lookup(nope) succeeded")
	}
}

type recordingSubmitter struct {
	got []Submission
	err error
}

func (r *recordingSubmitter) Submit(_ context.Context, sub Submission) error {
	r.got = append(r.got, sub)
	return r.err
}

func TestSubmit_InvalidSkipsSubmitter(t *testing.T) {
	rec := &recordingSubmitter{}
	res := Submit(context.Background(), rec, Suggestions, Values{})
	if res.Status != StatusInvalid || len(res.Errors) != 1 {
		t.Fatalf("result = %+v, want invalid with 1 error", res)
	}
	if len(rec.got) != 0 {
		t.Fatal("submitter called for invalid form")
	}
}

func TestSubmit_SuccessTrimsValues(t *testing.T) {
	rec := &recordingSubmitter{}
	res := Submit(context.Background(), rec, Suggestions, Values{"suggestion": "  capoeira workshop  "})
	if res.Status != StatusSuccess || res.Message != Suggestions.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if len(rec.got) != 1 || rec.got[0].Form != "suggestions" || rec.got[0].Values["suggestion"] != "capoeira workshop" {
		t.Fatalf("submission = %+v", rec.got)
	}
}

func TestSubmit_FailureSurfacesMessage(t *testing.T) {
	rec := &recordingSubmitter{err: ErrSubmissionFailed}
	res := Submit(context.Background(), rec, Suggestions, Values{"suggestion": "x"})
	if res.Status != StatusError || res.Message != Suggestions.Failure || !errors.Is(res.Err, ErrSubmissionFailed) {
		t.Fatalf("result = %+v, want error", res)
	}
	if len(rec.got) != 1 {
		t.Fatalf("submitter called %d times, want exactly 1 (no retry)", len(rec.got))
	}
}

func TestSimulated_FailureRates(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	always := NewSimulated(0, 1, rng)
	if err := always.Submit(context.Background(), Submission{}); !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("FailureRate 1: err = %v, want ErrSubmissionFailed", err)
	}

	never := NewSimulated(0, 0, rng)
	for i := 0; i < 50; i++ {
		if err := never.Submit(context.Background(), Submission{}); err != nil {
			t.Fatalf("FailureRate 0: err = %v", err)
		}
	}
}

func TestSimulated_Defaults(t *testing.T) {
	s := NewSimulated(-1, -1, nil)
	if s.Delay != DefaultSubmitDelay || s.FailureRate != DefaultFailureRate {
		t.Fatalf("defaults = %v/%v", s.Delay, s.FailureRate)
	}
}

func TestSimulated_ContextCancel(t *testing.T) {
	s := NewSimulated(time.Hour, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Submit(ctx, Submission{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestStatusString(t *testing.T) {
	if StatusSending.String() != "sending" || StatusIdle.String() != "idle" {
		t.Fatal("unexpected Status strings")
	}
}
