package handlers

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs-assignment/appboot/internal/bootstrap"
	"github.com/acs-assignment/appboot/internal/platform/s3"
	"github.com/acs-assignment/appboot/internal/util/prerequisites"
)

type recordingExecutor struct {
	mu     sync.Mutex
	cmds   []bootstrap.Command
	failOn string
}

func (e *recordingExecutor) Run(_ context.Context, cmd bootstrap.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cmds = append(e.cmds, cmd)
	if e.failOn != "" && cmd.Name == e.failOn {
		return errors.New("exit status 1")
	}
	return nil
}

type mkdirCloner struct{}

func (mkdirCloner) Clone(_ context.Context, opts bootstrap.CloneOptions) error {
	return os.MkdirAll(opts.Path, 0o755)
}

type fakeReportStore struct {
	opts   s3.Options
	bucket string
	plan   string
	runID  string
	report any
}

func (f *fakeReportStore) UploadReport(_ context.Context, bucket, plan, runID string, report any) (string, error) {
	f.bucket, f.plan, f.runID, f.report = bucket, plan, runID, report
	return s3.ReportKey(plan, runID), nil
}

// saveAndRestoreRunFactories saves and restores run factory functions.
func saveAndRestoreRunFactories(t *testing.T) {
	origLookuper := envLookuper
	origExecutor := newExecutor
	origCloner := newCloner
	origStore := newReportStore
	origPush := pushMetrics
	origCheck := checkTools

	t.Cleanup(func() {
		envLookuper = origLookuper
		newExecutor = origExecutor
		newCloner = origCloner
		newReportStore = origStore
		pushMetrics = origPush
		checkTools = origCheck
	})
}

func setupRun(t *testing.T, exec *recordingExecutor, env map[string]string) {
	t.Helper()
	saveAndRestoreRunFactories(t)
	envLookuper = envconfig.MapLookuper(env)
	newExecutor = func(time.Duration) bootstrap.Executor { return exec }
	newCloner = func() bootstrap.Cloner { return mkdirCloner{} }
	checkTools = func([]prerequisites.Tool) *prerequisites.CheckResults {
		return &prerequisites.CheckResults{}
	}
}

func TestRun_Success(t *testing.T) {
	exec := &recordingExecutor{}
	setupRun(t, exec, map[string]string{"PORT": "9000"})
	buf := captureOut(t)

	err := Run(context.Background(), RunOptions{ConfigPath: writePlanFile(t, "")})
	require.NoError(t, err)

	require.NotEmpty(t, exec.cmds)
	launch := exec.cmds[len(exec.cmds)-1]
	assert.Equal(t, "npm", launch.Name)
	assert.Equal(t, []string{"start"}, launch.Args)
	assert.Contains(t, launch.Env, "PORT=9000")
	assert.Contains(t, launch.Env, "IP=localhost")

	output := buf.String()
	assert.Contains(t, output, "Bootstrap web")
	assert.Contains(t, output, "clone-repository")
	assert.Contains(t, output, "completed")
}

func TestRun_FailureStillReports(t *testing.T) {
	exec := &recordingExecutor{failOn: "npm"}
	setupRun(t, exec, nil)
	buf := captureOut(t)

	err := Run(context.Background(), RunOptions{ConfigPath: writePlanFile(t, "")})
	require.Error(t, err)

	output := buf.String()
	assert.Contains(t, output, "install-dependencies")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "exit status 1")
}

func TestRun_Publishes(t *testing.T) {
	exec := &recordingExecutor{}
	setupRun(t, exec, nil)
	captureOut(t)

	var pushedURL, pushedRun string
	pushMetrics = func(_ context.Context, url, runID string, g prometheus.Gatherer) error {
		pushedURL, pushedRun = url, runID
		families, err := g.Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, families)
		return nil
	}
	store := &fakeReportStore{}
	newReportStore = func(_ context.Context, opts s3.Options) (reportStore, error) {
		store.opts = opts
		return store, nil
	}

	err := Run(context.Background(), RunOptions{
		ConfigPath:      writePlanFile(t, ""),
		Pushgateway:     "http://pushgateway:9091",
		ReportBucket:    "reports",
		ReportEndpoint:  "http://minio:9000",
		ReportPathStyle: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "http://pushgateway:9091", pushedURL)
	assert.NotEmpty(t, pushedRun)

	assert.Equal(t, "reports", store.bucket)
	assert.Equal(t, "web", store.plan)
	assert.Equal(t, pushedRun, store.runID)
	assert.Equal(t, "eu-west-1", store.opts.Region)
	assert.Equal(t, "http://minio:9000", store.opts.Endpoint)
	assert.True(t, store.opts.PathStyle)

	report, ok := store.report.(*bootstrap.Report)
	require.True(t, ok)
	assert.Equal(t, bootstrap.StatusCompleted, report.Status)
}

func TestRun_PublishErrorsDoNotFailRun(t *testing.T) {
	exec := &recordingExecutor{}
	setupRun(t, exec, nil)
	captureOut(t)

	pushMetrics = func(context.Context, string, string, prometheus.Gatherer) error {
		return errors.New("connection refused")
	}
	newReportStore = func(context.Context, s3.Options) (reportStore, error) {
		return nil, errors.New("no credentials")
	}

	err := Run(context.Background(), RunOptions{
		ConfigPath:   writePlanFile(t, ""),
		Pushgateway:  "http://pushgateway:9091",
		ReportBucket: "reports",
	})
	assert.NoError(t, err)
}

func TestRun_InvalidListenEnv(t *testing.T) {
	setupRun(t, &recordingExecutor{}, map[string]string{"PORT": "http"})
	captureOut(t)

	err := Run(context.Background(), RunOptions{ConfigPath: writePlanFile(t, "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen address")
}

func TestRun_MissingPackageManager(t *testing.T) {
	exec := &recordingExecutor{}
	setupRun(t, exec, nil)
	captureOut(t)

	var checked []string
	checkTools = func(tools []prerequisites.Tool) *prerequisites.CheckResults {
		results := &prerequisites.CheckResults{}
		for _, tool := range tools {
			checked = append(checked, tool.Name)
			results.Missing = append(results.Missing, tool)
		}
		return results
	}

	err := Run(context.Background(), RunOptions{ConfigPath: writePlanFile(t, "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apt-get")
	assert.Equal(t, []string{"apt-get", "npm"}, checked)
	assert.Empty(t, exec.cmds)
}

func TestRun_EmptyListenEnvUsesDefaults(t *testing.T) {
	exec := &recordingExecutor{}
	setupRun(t, exec, map[string]string{"IP": "", "PORT": ""})
	captureOut(t)

	require.NoError(t, Run(context.Background(), RunOptions{ConfigPath: writePlanFile(t, "")}))

	launch := exec.cmds[len(exec.cmds)-1]
	assert.Contains(t, launch.Env, "IP=localhost")
	assert.Contains(t, launch.Env, "PORT=8000")
}
