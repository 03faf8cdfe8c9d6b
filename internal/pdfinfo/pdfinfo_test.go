package pdfinfo_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimassist/internal/pdfinfo"
)

// buildPDF writes a minimal PDF with the given number of empty pages and a
// correct cross-reference table.
func buildPDF(pages int) []byte {
	var objs []string
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", i+3)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages),
	)
	for i := 0; i < pages; i++ {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestIsPDF(t *testing.T) {
	assert.True(t, pdfinfo.IsPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, pdfinfo.IsPDF([]byte("\x89PNG")))
	assert.False(t, pdfinfo.IsPDF(nil))
}

func TestInspect_PageCount(t *testing.T) {
	info, err := pdfinfo.Inspect(buildPDF(2))

	require.NoError(t, err)
	assert.Equal(t, 2, info.Pages)
	assert.False(t, info.HasText)
}

func TestInspect_NotPDF(t *testing.T) {
	_, err := pdfinfo.Inspect([]byte("hello"))

	assert.ErrorIs(t, err, pdfinfo.ErrNotPDF)
}

func TestInspect_Truncated(t *testing.T) {
	_, err := pdfinfo.Inspect([]byte("%PDF-1.4\n1 0 obj\n<<"))

	assert.Error(t, err)
}
