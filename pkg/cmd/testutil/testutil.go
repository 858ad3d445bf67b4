package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlalign/pkg/config"
	"github.com/pseudomuto/sqlalign/pkg/consts"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ProjectFixture is an isolated directory of SQL files used by command tests.
type ProjectFixture struct {
	Dir string
	t   *testing.T
}

// TestProject creates an empty fixture in a temp directory.
func TestProject(t *testing.T) *ProjectFixture {
	t.Helper()
	return &ProjectFixture{Dir: t.TempDir(), t: t}
}

// WithFiles writes each file relative to the fixture directory, creating
// parent directories as needed.
func (p *ProjectFixture) WithFiles(files map[string]string) *ProjectFixture {
	p.t.Helper()

	for name, content := range files {
		path := p.Path(name)
		require.NoError(p.t, os.MkdirAll(filepath.Dir(path), consts.ModeDir))
		require.NoError(p.t, os.WriteFile(path, []byte(content), consts.ModeFile))
	}

	return p
}

// WithConfig writes cfg to .sqlalign.yaml in the fixture directory.
func (p *ProjectFixture) WithConfig(cfg *config.Config) *ProjectFixture {
	p.t.Helper()

	data, err := yaml.Marshal(cfg)
	require.NoError(p.t, err)
	require.NoError(p.t, os.WriteFile(p.ConfigPath(), data, consts.ModeFile))

	return p
}

// Path joins name onto the fixture directory.
func (p *ProjectFixture) Path(name string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(name))
}

// ConfigPath is the location of the fixture's config file.
func (p *ProjectFixture) ConfigPath() string {
	return p.Path(consts.DefaultConfigFile)
}

// Chdir switches into the fixture directory for the rest of the test.
func (p *ProjectFixture) Chdir() *ProjectFixture {
	p.t.Helper()
	p.t.Chdir(p.Dir)
	return p
}
