package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLineArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"outline"},
			want: []string{"outline"},
		},
		{
			name: "line number first token",
			in:   []string{"outline", "7"},
			want: []string{"outline", "sentences", "show", "7"},
		},
		{
			name: "line number after value flag",
			in:   []string{"outline", "--db", "./tmp-data", "7"},
			want: []string{"outline", "--db", "./tmp-data", "sentences", "show", "7"},
		},
		{
			name: "value flag that looks like a line number",
			in:   []string{"outline", "--format", "text", "12"},
			want: []string{"outline", "--format", "text", "sentences", "show", "12"},
		},
		{
			name: "line number after equals flag",
			in:   []string{"outline", "--config-dir=./cfg", "7"},
			want: []string{"outline", "--config-dir=./cfg", "sentences", "show", "7"},
		},
		{
			name: "line number after bool flag",
			in:   []string{"outline", "--pretty", "7"},
			want: []string{"outline", "--pretty", "sentences", "show", "7"},
		},
		{
			name: "line number after double dash",
			in:   []string{"outline", "--", "7"},
			want: []string{"outline", "sentences", "show", "--", "7"},
		},
		{
			name: "zero is not a line",
			in:   []string{"outline", "0"},
			want: []string{"outline", "0"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"outline", "sentences", "show", "7"},
			want: []string{"outline", "sentences", "show", "7"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"outline", "wat"},
			want: []string{"outline", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLineArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectLineArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
