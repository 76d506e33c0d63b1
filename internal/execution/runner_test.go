package execution

import (
	"testing"

	"cypar/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestPackageManager(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		userAgent string
		expected  string
	}{
		{name: "npm on linux", goos: "linux", userAgent: "npm/10.2.0 node/v20.9.0 linux x64", expected: "npm"},
		{name: "npm on windows", goos: "windows", userAgent: "", expected: "npm.cmd"},
		{name: "yarn", goos: "darwin", userAgent: "yarn/1.22.19 npm/? node/v18.0.0 darwin arm64", expected: "yarn"},
		{name: "yarn on windows", goos: "windows", userAgent: "yarn/4.0.0", expected: "yarn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PackageManager(tt.goos, tt.userAgent))
		})
	}
}

func TestRunner_Args(t *testing.T) {
	cfg := config.New()
	cfg.Script = "cy:run"
	specs := []string{"cypress/integration/a.feature", "cypress/integration/b.feature"}

	t.Run("npm managed mode", func(t *testing.T) {
		r := &Runner{config: cfg, goos: "linux"}
		assert.Equal(t, []string{
			"run", "cy:run", "--",
			"--spec", "cypress/integration/a.feature,cypress/integration/b.feature",
			"--reporter", config.DefaultReporter,
		}, r.Args(specs))
	})

	t.Run("yarn with reporter override and extra args", func(t *testing.T) {
		custom := *cfg
		custom.Reporter = "junit"
		custom.ReporterOptions = "mochaFile=results/[hash].xml"
		custom.Args = "--browser chrome"

		r := &Runner{config: &custom, goos: "linux", userAgent: "yarn/1.22.19"}
		assert.Equal(t, []string{
			"run", "cy:run",
			"--spec", "cypress/integration/a.feature,cypress/integration/b.feature",
			"--reporter", "junit",
			"--reporter-options", "mochaFile=results/[hash].xml",
			"--browser", "chrome",
		}, r.Args(specs))
	})
}

func TestRunner_Command(t *testing.T) {
	cfg := config.New()
	cfg.Script = "cy:run"
	cfg.ProjectPath = "/work/app"

	cmd := (&Runner{config: cfg, goos: "linux"}).Command(3, []string{"a.feature"})
	assert.Equal(t, "/work/app", cmd.Dir)
	assert.Contains(t, cmd.Env, "CYPAR_WORKER=3")
	assert.Equal(t, "npm", cmd.Args[0])
}
