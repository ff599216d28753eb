package stoloto

import "testing"

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "plain text unchanged",
			in:   "Русское лото",
			want: "Русское лото",
		},
		{
			name: "tags stripped",
			in:   "<p>Билеты <b>со скидкой</b></p>",
			want: "Билеты со скидкой",
		},
		{
			name: "entities replaced",
			in:   "&laquo;Жилищная лотерея&raquo; &amp; бонус&nbsp;100",
			want: `"Жилищная лотерея" & бонус 100`,
		},
		{
			name: "whitespace collapsed",
			in:   "Розыгрыш\n\n  каждую   \t неделю ",
			want: "Розыгрыш каждую неделю",
		},
		{
			name: "quote entity",
			in:   "&quot;Спортлото&quot;",
			want: `"Спортлото"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
