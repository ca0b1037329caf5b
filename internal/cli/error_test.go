package cli_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"

	"github.com/macropower/lintcfg/internal/cli"
)

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err      error
		want     string
		wantHelp bool
	}{
		"multi-line error is indented": {
			err:  errors.New("validate composition:\n[3:1] expected array"),
			want: "  validate composition:\n  [3:1] expected array\n",
		},
		"usage error suggests help": {
			err:      errors.New("unknown flag: --nope"),
			want:     "  unknown flag: --nope\n",
			wantHelp: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			cli.ErrorHandler(&buf, fang.Styles{}, tc.err)

			assert.Contains(t, buf.String(), tc.want)
			if tc.wantHelp {
				assert.Contains(t, buf.String(), "--help")
			} else {
				assert.NotContains(t, buf.String(), "--help")
			}
		})
	}
}
