package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlalign/pkg/cmd/testutil"
	"github.com/pseudomuto/sqlalign/pkg/config"
	"github.com/stretchr/testify/require"
)

const (
	raggedSQL = "INSERT INTO t (a, b) VALUES (1, 2), (3);"
	inputSQL  = "INSERT INTO t (a,b) VALUES (1,'x'),(22,'yy');\n"
	outputSQL = "INSERT INTO t (a,b)\n" +
		"VALUES\n" +
		"    ( 1, 'x' ),\n" +
		"    (22, 'yy');\n"
)

func TestFmtCommand_Stdin(t *testing.T) {
	out, err := testutil.RunCommand(t, fmtCmd(nil), inputSQL)
	require.NoError(t, err)
	require.Equal(t, outputSQL, out.Stdout.String())
	require.Empty(t, out.Stderr.String())
}

func TestFmtCommand_StdinUnchanged(t *testing.T) {
	out, err := testutil.RunCommand(t, fmtCmd(nil), raggedSQL)
	require.NoError(t, err)
	require.Equal(t, raggedSQL, out.Stdout.String())
}

func TestFmtCommand_Verbose(t *testing.T) {
	out, err := testutil.RunCommand(t, fmtCmd(nil), raggedSQL, "--verbose")
	require.NoError(t, err)
	require.Equal(t, raggedSQL, out.Stdout.String())

	logs := out.Stderr.String()
	require.Contains(t, logs, "level=DEBUG")
	require.Contains(t, logs, "statement left unchanged")
	require.Contains(t, logs, "<stdin>")
	require.Contains(t, logs, "statement=INSERT")
	require.Contains(t, logs, "table=t")
	require.Contains(t, logs, "rows have different column counts")
}

func TestFmtCommand_SingleFile(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{"seed.sql": inputSQL})
	path := fixture.Path("seed.sql")

	out, err := testutil.RunCommand(t, fmtCmd(nil), "", path)
	require.NoError(t, err)
	require.Equal(t, "Formatted: "+path+"\n", out.Stdout.String())

	testutil.RequireFileExists(t, path, testutil.RequireFileContent(t, outputSQL))
	testutil.RequireNoFile(t, path+".bak")
}

func TestFmtCommand_AlreadyFormatted(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{"seed.sql": outputSQL})

	out, err := testutil.RunCommand(t, fmtCmd(nil), "", fixture.Path("seed.sql"))
	require.NoError(t, err)
	require.Empty(t, out.Stdout.String())
}

func TestFmtCommand_DryRun(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{
		"a.sql": inputSQL,
		"b.sql": outputSQL,
	})

	out, err := testutil.RunCommand(t, fmtCmd(nil), "", "-d", fixture.Dir)
	require.NoError(t, err)
	require.Equal(t, "Would format: "+fixture.Path("a.sql")+"\n", out.Stdout.String())

	testutil.RequireFileExists(t, fixture.Path("a.sql"), testutil.RequireFileContent(t, inputSQL))
}

func TestFmtCommand_Stdout(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{
		"a.sql": inputSQL,
		"b.sql": raggedSQL,
	})

	out, err := testutil.RunCommand(t, fmtCmd(nil), "", "--write=false", fixture.Dir)
	require.NoError(t, err)
	require.Equal(t, outputSQL+raggedSQL, out.Stdout.String())

	testutil.RequireFileExists(t, fixture.Path("a.sql"), testutil.RequireFileContent(t, inputSQL))
}

func TestFmtCommand_Backup(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{
		"a.sql": inputSQL,
		"b.sql": outputSQL,
	})

	_, err := testutil.RunCommand(t, fmtCmd(nil), "", "-b", fixture.Dir)
	require.NoError(t, err)

	testutil.RequireFileExists(t, fixture.Path("a.sql"), testutil.RequireFileContent(t, outputSQL))
	testutil.RequireFileExists(t, fixture.Path("a.sql.bak"), testutil.RequireFileContent(t, inputSQL))

	// unchanged files are never backed up
	testutil.RequireNoFile(t, fixture.Path("b.sql.bak"))
}

func TestFmtCommand_Directory(t *testing.T) {
	fixture := testutil.TestProject(t).
		WithConfig(&config.Config{Exclude: []string{"skip_*.sql", "vendor"}}).
		WithFiles(map[string]string{
			"b.sql":          inputSQL,
			"a.SQL":          inputSQL,
			"sub/c.sql":      inputSQL,
			"sub/notes.txt":  inputSQL,
			"skip_me.sql":    inputSQL,
			".hidden/d.sql":  inputSQL,
			".git/e.sql":     inputSQL,
			"target/f.sql":   inputSQL,
			"vendor/g.sql":   inputSQL,
			"sub/vendor.sql": inputSQL,
		})

	cfg, err := config.LoadConfigFile(fixture.ConfigPath())
	require.NoError(t, err)

	out, err := testutil.RunCommand(t, fmtCmd(cfg), "", "-j", "2", fixture.Dir)
	require.NoError(t, err)
	require.Equal(t,
		"Formatted: "+fixture.Path("a.SQL")+"\n"+
			"Formatted: "+fixture.Path("b.sql")+"\n"+
			"Formatted: "+fixture.Path("sub/c.sql")+"\n"+
			"Formatted: "+fixture.Path("sub/vendor.sql")+"\n",
		out.Stdout.String(),
	)

	for _, name := range []string{"a.SQL", "b.sql", "sub/c.sql", "sub/vendor.sql"} {
		testutil.RequireFileExists(t, fixture.Path(name), testutil.RequireFileContains(t, "    (22, 'yy');"))
	}

	for _, name := range []string{"sub/notes.txt", "skip_me.sql", ".hidden/d.sql", ".git/e.sql", "target/f.sql", "vendor/g.sql"} {
		testutil.RequireFileExists(t, fixture.Path(name), testutil.RequireFileContent(t, inputSQL))
	}
}

func TestFmtCommand_All(t *testing.T) {
	fixture := testutil.TestProject(t).
		WithFiles(map[string]string{
			"a.sql":     inputSQL,
			"db/b.sql":  inputSQL,
			"db/c.sql":  outputSQL,
			"other.txt": inputSQL,
		}).
		Chdir()

	out, err := testutil.RunCommand(t, fmtCmd(nil), "", "--all")
	require.NoError(t, err)
	require.Equal(t, "Formatted: a.sql\nFormatted: "+filepath.Join("db", "b.sql")+"\n", out.Stdout.String())

	testutil.RequireFileExists(t, fixture.Path("db/b.sql"), testutil.RequireFileContent(t, outputSQL))
}

func TestFmtCommand_ConfigFlag(t *testing.T) {
	fixture := testutil.TestProject(t).
		WithConfig(&config.Config{Indent: 2}).
		WithFiles(map[string]string{"seed.sql": inputSQL})

	out, err := testutil.RunCommand(t, fmtCmd(nil), "", "-c", fixture.ConfigPath(), "--write=false", fixture.Path("seed.sql"))
	require.NoError(t, err)
	require.Equal(t, "INSERT INTO t (a,b)\nVALUES\n  ( 1, 'x' ),\n  (22, 'yy');\n", out.Stdout.String())
}

func TestFmtCommand_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := testutil.RunCommand(t, fmtCmd(nil), "", filepath.Join(t.TempDir(), "missing.sql"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to access path")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := testutil.RunCommand(t, fmtCmd(nil), "", t.TempDir())
		require.Error(t, err)
		require.Contains(t, err.Error(), "no SQL files found in directory")
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := testutil.RunCommand(t, fmtCmd(nil), inputSQL, "-c", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to load config")
	})
}

func TestFormatFiles_ContinuesAfterFailure(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{
		"a.sql": inputSQL,
		"c.sql": inputSQL,
	})

	files := []string{fixture.Path("a.sql"), fixture.Path("b.sql"), fixture.Path("c.sql")}
	opts := fmtOptions{write: true, jobs: 2}

	var stdout, stderr bytes.Buffer
	err := formatFiles(context.Background(), files, config.Default().GetFormatter(), opts, &stdout, newLogger(&stderr, false))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to format 1 of 3 files")

	require.Equal(t, "Formatted: "+files[0]+"\nFormatted: "+files[2]+"\n", stdout.String())
	require.Contains(t, stderr.String(), "failed to format file")
	require.Contains(t, stderr.String(), "failed to read file")

	testutil.RequireFileExists(t, files[2], testutil.RequireFileContent(t, outputSQL))
}

func TestFormatFiles_Cancelled(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{"a.sql": inputSQL})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := formatFiles(ctx, []string{fixture.Path("a.sql")}, config.Default().GetFormatter(), fmtOptions{write: true}, io.Discard, newLogger(io.Discard, false))
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	testutil.RequireFileExists(t, fixture.Path("a.sql"), testutil.RequireFileContent(t, inputSQL))
}

func TestCollectFiles_Deduplicates(t *testing.T) {
	fixture := testutil.TestProject(t).WithFiles(map[string]string{"a.sql": inputSQL, "b.sql": inputSQL})

	files, err := collectFiles([]string{fixture.Path("b.sql"), fixture.Dir, fixture.Path("a.sql")}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{fixture.Path("a.sql"), fixture.Path("b.sql")}, files)
}
