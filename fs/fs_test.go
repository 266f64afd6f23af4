package appfs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFS(t *testing.T) {
	tests := []string{
		"templates/views/_layout.gohtml",
		"templates/views/home.gohtml",
		"templates/views/students/index.gohtml",
		"templates/email/_base.txt",
		"templates/email/_base.gohtml",
		"templates/email/announcement.txt",
		"templates/email/announcement.gohtml",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := fs.Stat(FS, name)
			assert.NoError(t, err)
		})
	}
}
