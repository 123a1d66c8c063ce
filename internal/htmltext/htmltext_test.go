package htmltext

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paragraphs",
			in:   "<html><body><h2>Ingredients:</h2><p>Water, Sugar,   Salt.</p><p>Best before: see lid</p></body></html>",
			want: "Ingredients:\nWater, Sugar, Salt.\nBest before: see lid",
		},
		{
			name: "list items become a list",
			in:   "<p>Ingredients</p><ul><li>Sugar</li><li>Cocoa butter</li><li>Milk</li></ul>",
			want: "Ingredients\nSugar, Cocoa butter, Milk",
		},
		{
			name: "script style and head dropped",
			in:   "<head><title>Shop</title><style>p{}</style></head><body><script>var x = 'gelatin';</script><p>Rice</p></body>",
			want: "Rice",
		},
		{
			name: "line breaks",
			in:   "<div>Oats<br>Water</div>",
			want: "Oats\nWater",
		},
		{
			name: "entities decoded",
			in:   "<p>Salt &amp; pepper, Jalape&ntilde;o</p>",
			want: "Salt & pepper, Jalapeño",
		},
		{
			name: "plain text passes through",
			in:   "Ingredients: rice",
			want: "Ingredients: rice",
		},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.in); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}
