package links_test

import (
	"testing"

	"clipscribe/internal/links"
)

func TestNormalizeRewritesDiscordCDN(t *testing.T) {
	n := links.NewNormalizer(map[string]string{"cdn.discordapp.com": "media.discordapp.net"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "alias host",
			in:   "https://cdn.discordapp.com/attachments/1/2/a.mp4",
			want: "https://media.discordapp.net/attachments/1/2/a.mp4",
		},
		{
			name: "already canonical",
			in:   "https://media.discordapp.net/attachments/1/2/a.mp4",
			want: "https://media.discordapp.net/attachments/1/2/a.mp4",
		},
		{
			name: "every occurrence",
			in:   "https://cdn.discordapp.com/x?ref=cdn.discordapp.com",
			want: "https://media.discordapp.net/x?ref=media.discordapp.net",
		},
		{
			name: "unrelated host",
			in:   "https://example.com/clip.mp4",
			want: "https://example.com/clip.mp4",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if again := n.Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
			if n.NeedsRewrite(got) {
				t.Fatalf("expected no rewrite needed after normalization of %q", got)
			}
		})
	}
}

func TestNormalizerAppliesLongestAliasFirst(t *testing.T) {
	n := links.NewNormalizer(map[string]string{
		"cdn.example.com":     "media.example.net",
		"img.cdn.example.com": "images.example.net",
	})
	rules := n.Rules()
	if len(rules) != 2 || rules[0].Alias != "img.cdn.example.com" {
		t.Fatalf("unexpected rule order %+v", rules)
	}
	if got := n.Normalize("https://img.cdn.example.com/a"); got != "https://images.example.net/a" {
		t.Fatalf("unexpected rewrite %q", got)
	}
}

func TestNilNormalizerIsIdentity(t *testing.T) {
	var n *links.Normalizer
	if got := n.Normalize("https://cdn.discordapp.com/a"); got != "https://cdn.discordapp.com/a" {
		t.Fatalf("expected identity, got %q", got)
	}
}
