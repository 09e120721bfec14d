package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"nil error": {
			err:      nil,
			wantCode: SuccessCode,
			wantLog:  "",
		},
		"registered error": {
			err:      ErrUnauthorized,
			wantCode: ErrUnauthorized.code,
			wantLog:  "unauthorized",
		},
		"extension keeps its own code": {
			err:      Wrap(errTestLeaf, "x"),
			wantCode: 9001,
			wantLog:  "x: test leaf",
		},
		"stdlib error is redacted": {
			err:      fmt.Errorf("secret"),
			wantCode: internalCode,
			wantLog:  internalLog,
		},
		"panic is redacted": {
			err:      Wrap(ErrPanic, "stack info"),
			wantCode: ErrPanic.code,
			wantLog:  internalLog,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := Info(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Errorf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestInfoDebugShowsInternal(t *testing.T) {
	_, log := Info(fmt.Errorf("secret"), true)
	if !strings.Contains(log, "secret") {
		t.Fatalf("want original message, got %q", log)
	}
}

func TestRedact(t *testing.T) {
	if err := Redact(fmt.Errorf("secret"), false); err.Error() != internalLog {
		t.Fatalf("want redacted error, got %q", err)
	}
	if err := Redact(ErrState, false); err != ErrState {
		t.Fatalf("want untouched error, got %q", err)
	}
}

func TestSimpleFormat(t *testing.T) {
	err := Wrap(ErrDuplicate, "name")
	if got := err.Error(); got != "name: duplicate" {
		t.Fatalf("unexpected message %q", got)
	}
	tiny := fmt.Sprintf("%v", err)
	if !strings.HasPrefix(tiny, "name: duplicate") {
		t.Fatalf("unexpected short format %q", tiny)
	}
	if strings.Contains(tiny, "\n") {
		t.Fatalf("only one line is expected: %q", tiny)
	}
	if !strings.Contains(tiny, "errors/info_test.go") {
		t.Fatalf("creation place expected in %q", tiny)
	}
}
