package service

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		removeLinks bool
		bannedWords []string
		want        string
	}{
		{
			name:        "no transformations enabled",
			input:       "movie.mkv",
			removeLinks: false,
			want:        "movie.mkv",
		},
		{
			name:        "url glued between separators",
			input:       "Episode_https://x.co_S01.mkv",
			removeLinks: true,
			want:        "Episode_S01.mkv",
		},
		{
			name:        "www url",
			input:       "Show_www.example.com_E02.mp4",
			removeLinks: true,
			want:        "Show_E02.mp4",
		},
		{
			name:        "telegram handle",
			input:       "Show.@somechannel.mkv",
			removeLinks: true,
			want:        "Show.mkv",
		},
		{
			name:        "bracketed tags",
			input:       "Movie.[x265].mkv",
			removeLinks: true,
			want:        "Movie.mkv",
		},
		{
			name:        "banned word between dots",
			input:       "Show.leak.mkv",
			bannedWords: []string{"leak"},
			want:        "Show.mkv",
		},
		{
			name:        "banned word is case insensitive",
			input:       "Show.LEAK.mkv",
			bannedWords: []string{"leak"},
			want:        "Show.mkv",
		},
		{
			name:        "banned word matches whole words only",
			input:       "leakage.mkv",
			bannedWords: []string{"leak"},
			want:        "leakage.mkv",
		},
		{
			name:        "leading and trailing separators trimmed",
			input:       "_Show.mkv_",
			removeLinks: true,
			want:        "Show.mkv",
		},
		{
			name:        "both steps together",
			input:       "Show.@chan.leak.mkv",
			removeLinks: true,
			bannedWords: []string{"leak"},
			want:        "Show.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanFileName(tt.input, tt.removeLinks, tt.bannedWords)
			if got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// Cleaning is idempotent.
			again := CleanFileName(got, tt.removeLinks, tt.bannedWords)
			if again != got {
				t.Errorf("CleanFileName not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		input     string
		wantTitle string
		wantExt   string
	}{
		{"movie.mkv", "movie", "mkv"},
		{"archive.tar.gz", "archive.tar", "gz"},
		{"noextension", "noextension", ""},
		{".hidden", ".hidden", ""},
	}

	for _, tt := range tests {
		title, ext := SplitTitle(tt.input)
		if title != tt.wantTitle || ext != tt.wantExt {
			t.Errorf("SplitTitle(%q) = (%q, %q), want (%q, %q)", tt.input, title, ext, tt.wantTitle, tt.wantExt)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(2097152); got != "2.00 MB" {
		t.Errorf("FormatSize(2097152) = %q, want %q", got, "2.00 MB")
	}
	if got := FormatSize(1572864); got != "1.50 MB" {
		t.Errorf("FormatSize(1572864) = %q, want %q", got, "1.50 MB")
	}
	if got := FormatSize(0); got != "N/A" {
		t.Errorf("FormatSize(0) = %q, want %q", got, "N/A")
	}
	if got := FormatSize(-5); got != "N/A" {
		t.Errorf("FormatSize(-5) = %q, want %q", got, "N/A")
	}
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("{file_title} - {file_size}", "Report Final.pdf", "Report Final", "2.00 MB", "")
	if got != "Report Final - 2.00 MB" {
		t.Errorf("RenderTemplate = %q, want %q", got, "Report Final - 2.00 MB")
	}
}

func TestRenderTemplateEscapesValues(t *testing.T) {
	got := RenderTemplate("{file_name}", "<b>evil</b>.mkv", "", "", "")
	if got != "&lt;b&gt;evil&lt;/b&gt;.mkv" {
		t.Errorf("RenderTemplate = %q, placeholder values must be escaped", got)
	}
}

func TestRenderTemplateLeavesUnknownPlaceholders(t *testing.T) {
	got := RenderTemplate("{file_name} {unknown}", "a.mkv", "", "", "")
	if got != "a.mkv {unknown}" {
		t.Errorf("RenderTemplate = %q, unknown placeholders must pass through", got)
	}
}
