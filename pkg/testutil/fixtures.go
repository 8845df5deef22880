package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// SimulationHeader is the column layout of the published simulation export.
const SimulationHeader = "Unnamed: 0,face_ratio,eye_height,eye_distance,Parecido_a_Fedelobo,PC1,PC2"

// SimulationCSV builds a dataset with total rows of which the first matches
// are flagged as look-alikes. Feature values cycle deterministically.
func SimulationCSV(total, matches int) string {
	var b strings.Builder
	b.WriteString(SimulationHeader)
	b.WriteByte('\n')
	for i := 0; i < total; i++ {
		flag := 0
		if i < matches {
			flag = 1
		}
		fmt.Fprintf(&b, "%d,%.2f,%.2f,%.2f,%d,%.3f,%.3f\n",
			i, 1.2+float64(i%10)/100, 0.4+float64(i%7)/100, 0.3+float64(i%5)/100, flag, float64(i%13)-6, float64(i%11)-5)
	}
	return b.String()
}

// WriteFile writes content under t.TempDir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
