package bind

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "adwarden/internal/platform/errors"
)

type inspectInput struct {
	UserID      string `json:"userId" validate:"required,chat_id"`
	Content     string `json:"content" validate:"max=20"`
	Sensitivity int    `json:"sensitivity,omitempty" validate:"omitempty,min=1,max=10"`
	Internal    string `json:"-"`
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		method string
		body   string
		code   perr.ErrorCode
		field  string
		msg    string
	}{
		{"ok", http.MethodPost, `{"userId":"10001","content":"hi"}`, 0, "", ""},
		{"empty post", http.MethodPost, ``, perr.ErrorCodeJSON, "", "empty body"},
		{"empty delete", http.MethodDelete, ``, 0, "", ""},
		{"broken", http.MethodPost, `{"userId":`, perr.ErrorCodeJSON, "", ""},
		{"unknown field", http.MethodPost, `{"userId":"1","extra":true}`, perr.ErrorCodeJSON, "", ""},
		{"trailing", http.MethodPost, `{"userId":"1"} {}`, perr.ErrorCodeJSON, "", "unexpected trailing data"},
		{"missing", http.MethodPost, `{"content":"x"}`, perr.ErrorCodeValidation, "userId", ""},
		{"spaced id", http.MethodPost, `{"userId":"a b"}`, perr.ErrorCodeValidation, "userId", "userId must be a single id of at most 64 characters"},
		{"long id", http.MethodPost, `{"userId":"` + strings.Repeat("9", 65) + `"}`, perr.ErrorCodeValidation, "userId", ""},
		{"too long", http.MethodPost, `{"userId":"1","content":"` + strings.Repeat("x", 21) + `"}`, perr.ErrorCodeValidation, "content", "content must be at most 20"},
		{"too low", http.MethodPost, `{"userId":"1","sensitivity":-1}`, perr.ErrorCodeValidation, "sensitivity", "sensitivity must be at least 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, "/", strings.NewReader(tc.body))
			_, err := ParseJSON[inspectInput](req)
			if tc.code == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			e, ok := perr.As(err)
			if !ok || e.Code() != tc.code || e.Field() != tc.field {
				t.Fatalf("got %v (%+v)", err, e)
			}
			if tc.msg != "" && perr.WireFrom(err).Message != tc.msg {
				t.Fatalf("message %q want %q", perr.WireFrom(err).Message, tc.msg)
			}
		})
	}
}

func TestParseJSON_Decodes(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"10001","content":"加群","sensitivity":7}`))
	got, err := ParseJSON[inspectInput](req)
	if err != nil || got.UserID != "10001" || got.Content != "加群" || got.Sensitivity != 7 {
		t.Fatalf("got %+v err=%v", got, err)
	}
}

func TestParseJSON_BodyCap(t *testing.T) {
	t.Parallel()
	body := `{"userId":"1","content":"` + strings.Repeat("x", MaxBody) + `"}`
	_, err := ParseJSON[inspectInput](httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("expected json error past the cap, got %v", err)
	}
}

func TestValidate_NotAStruct(t *testing.T) {
	t.Parallel()
	if err := Validate(42); perr.CodeOf(err) != perr.ErrorCodeJSON {
		t.Fatalf("got %v", err)
	}
}
