package linkify

import "testing"

func TestRewriteWhatsApp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "whatsapp: 54 9 11 3582 1240", want: "whatsapp: https://wa.me/5491135821240"},
		{in: "Escribinos por WhatsApp +54 (11) 3582-1240.", want: "Escribinos por WhatsApp https://wa.me/541135821240."},
		{in: "WhatsApp - 11.3582.1240 anytime", want: "WhatsApp - https://wa.me/1135821240 anytime"},
		{in: "whatsapp 12345", want: "whatsapp 12345"},
		{in: "whatsapp https://wa.me/123456", want: "whatsapp https://wa.me/123456"},
		{in: "call 54 9 11 3582 1240", want: "call 54 9 11 3582 1240"},
		{in: "no phone here", want: "no phone here"},
		{in: "WhatsApp al 11 3582 1240", want: "WhatsApp al https://wa.me/1135821240"},
		{in: "Message us on WhatsApp at +54 9 11 3582 1240.", want: "Message us on WhatsApp at https://wa.me/5491135821240."},
		{in: "escribinos por whatsapp: al 11-3582-1240", want: "escribinos por whatsapp: al https://wa.me/1135821240"},
		{in: "whatsapp al 123", want: "whatsapp al 123"},
		{in: "whatsappal 11 3582 1240", want: "whatsappal 11 3582 1240"},
	}
	for _, tc := range cases {
		if got := RewriteWhatsApp(tc.in); got != tc.want {
			t.Fatalf("RewriteWhatsApp(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
