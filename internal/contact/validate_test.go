package contact_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ipms/internal/contact"
	"ipms/pkg/domain"
	"ipms/pkg/serrors"
)

func TestIsValidEmail(t *testing.T) {
	cases := map[string]bool{
		"jane@x.co":              true,
		"first.last+tag@a-b.org": true,
		"100%@mail.example.io":   true,
		"not-an-email":           false,
		"jane@x":                 false,
		"jane@x.c":               false,
		"jane doe@x.co":          false,
		"@x.co":                  false,
		"jane@x.co ":             false,
	}
	for email, want := range cases {
		require.Equal(t, want, contact.IsValidEmail(email), email)
	}
}

func TestRules_Validate(t *testing.T) {
	rules := contact.Rules{}
	long := strings.Repeat("a", contact.DefaultMaxMessageLength+1)

	tests := []struct {
		name    string
		in      domain.Submission
		wantErr error
		wantMsg string
	}{
		{"ok", domain.Submission{Name: "Jane", Email: "jane@x.co", Message: "hello"}, nil, ""},
		{"missing name", domain.Submission{Email: "jane@x.co", Message: "hello"},
			contact.ErrMissingFields, contact.NoticeMissingFields},
		{"missing everything wins over bad email", domain.Submission{Email: "nope"},
			contact.ErrMissingFields, contact.NoticeMissingFields},
		{"bad email", domain.Submission{Name: "Jane", Email: "not-an-email", Message: "hello"},
			contact.ErrInvalidEmail, contact.NoticeInvalidEmail},
		{"bad email wins over long message", domain.Submission{Name: "Jane", Email: "nope", Message: long},
			contact.ErrInvalidEmail, contact.NoticeInvalidEmail},
		{"long message", domain.Submission{Name: "Jane", Email: "jane@x.co", Message: long},
			contact.ErrMessageTooLong, "Message exceeds the maximum length of 2000 characters."},
		{"exactly at limit", domain.Submission{Name: "Jane", Email: "jane@x.co",
			Message: strings.Repeat("a", contact.DefaultMaxMessageLength)}, nil, ""},
		{"whitespace is not empty", domain.Submission{Name: " ", Email: "jane@x.co", Message: " "}, nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := rules.Validate(tc.in)
			if tc.wantErr == nil {
				require.NoError(t, err)

				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, serrors.ErrBadRequest)
			require.Equal(t, tc.wantMsg, serrors.MessageOf(err))
		})
	}
}

func TestRules_MessageLengthCountsCharacters(t *testing.T) {
	rules := contact.Rules{MaxMessageLength: 3}

	require.True(t, rules.MessageFits("héé"))
	require.False(t, rules.MessageFits("héllo"))
	require.Equal(t, 2, contact.MessageLength("日本"))
	require.Equal(t, "Message exceeds the maximum length of 3 characters.", rules.MessageTooLongNotice())

	err := rules.Validate(domain.Submission{Name: "a", Email: "a@b.cd", Message: "abcd"})
	require.True(t, errors.Is(err, contact.ErrMessageTooLong))
}
