package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferFileType(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"report.pdf", FileTypePDF},
		{"REPORT.PDF", FileTypePDF},
		{"data.xlsx", FileTypeExcel},
		{"legacy.xls", FileTypeExcel},
		{"notes.txt", FileTypeTxt},
		{"memo.doc", FileTypeDocx},
		{"memo.docx", FileTypeDocx},
		{"archive.zip", FileTypeOther},
		{"noextension", FileTypeOther},
		{"", FileTypeOther},
		{"double.tar.gz", FileTypeOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, InferFileType(tc.filename), tc.filename)
	}
}

func TestValidFileType(t *testing.T) {
	assert.True(t, ValidFileType(FileTypePDF))
	assert.True(t, ValidFileType(FileTypeOther))
	assert.False(t, ValidFileType(""))
	assert.False(t, ValidFileType("spreadsheet"))
}
