package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullTarget = `
container:
  name: acme/web
  image: web
  basedir: ctx
dockerfile:
  from: alpine:3.19
  maintainer: ops@acme.test
  commands: |
    RUN apk add curl
    ADD shared /opt/shared
  symlinks:
    - shared
run:
  daemon: true
  restart: always
  portmaps:
    - host: 8080
      container: 80
    - host: 5353
      container: 53
      udp: true
  mounts:
    - host: ./data
      container: /data
      permission: rw
    - placeholder: certs
      container: /certs
      permission: r
  privileged: false
  memory: 512m
  logmaxsize: 10m
  command: nginx -g daemon-off
debug:
  interactive: true
  command: sh
environment: |
  A=1
  B=2
prebuild: echo pre
postbuild: echo post
prerun: echo run
`

func TestParse_FullDocument(t *testing.T) {
	tgt, err := Parse([]byte(fullTarget))
	require.NoError(t, err)

	require.NotNil(t, tgt.Container)
	assert.Equal(t, Scalar("acme/web"), tgt.Container.Name)
	assert.Equal(t, Scalar("web"), tgt.Container.Image)
	assert.Equal(t, "ctx", tgt.Container.Basedir)

	require.NotNil(t, tgt.Dockerfile)
	assert.Equal(t, Scalar("alpine:3.19"), tgt.Dockerfile.From)
	assert.Equal(t, []string{"shared"}, tgt.Dockerfile.Symlinks)
	assert.Contains(t, tgt.Dockerfile.Commands, "ADD shared /opt/shared")

	require.NotNil(t, tgt.Run)
	assert.True(t, tgt.Run.Daemon)
	assert.Equal(t, "always", tgt.Run.Restart)
	require.Len(t, tgt.Run.Portmaps, 2)
	assert.Equal(t, Scalar("8080"), tgt.Run.Portmaps[0].Host)
	assert.True(t, tgt.Run.Portmaps[1].UDP)
	require.Len(t, tgt.Run.Mounts, 2)
	assert.True(t, tgt.Run.Mounts[0].Writable())
	assert.False(t, tgt.Run.Mounts[1].Writable())
	assert.Equal(t, "certs", tgt.Run.Mounts[1].Placeholder)
	assert.Equal(t, Scalar("512m"), tgt.Run.Memory)

	assert.Equal(t, "A=1\nB=2\n", tgt.Environment)
	assert.Equal(t, "echo pre", tgt.Prebuild)
	assert.Equal(t, "echo post", tgt.Postbuild)
	assert.Equal(t, "echo run", tgt.Prerun)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("container: [unclosed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTargetParse)
}

func TestRunBlock(t *testing.T) {
	tgt, err := Parse([]byte(fullTarget))
	require.NoError(t, err)

	t.Run("default block", func(t *testing.T) {
		spec, err := tgt.RunBlock("")
		require.NoError(t, err)
		assert.Equal(t, "always", spec.Restart)
	})

	t.Run("named block", func(t *testing.T) {
		spec, err := tgt.RunBlock("debug")
		require.NoError(t, err)
		assert.True(t, spec.Interactive)
		assert.Equal(t, "sh", spec.Command)
		assert.Empty(t, spec.Restart)
	})

	t.Run("unknown block", func(t *testing.T) {
		_, err := tgt.RunBlock("nope")
		assert.ErrorIs(t, err, ErrTargetParse)
	})

	t.Run("missing default block yields empty spec", func(t *testing.T) {
		bare, err := Parse([]byte("container: {name: a, image: b}"))
		require.NoError(t, err)
		spec, err := bare.RunBlock("")
		require.NoError(t, err)
		assert.Equal(t, &RunSpec{}, spec)
	})
}

func TestValidateFor(t *testing.T) {
	testCases := []struct {
		name    string
		doc     string
		actions Actions
		wantErr bool
	}{
		{"no actions never fails", "{}", Actions{}, false},
		{"stop needs container", "{}", Actions{Stop: true}, true},
		{"stop needs only image", "container: {image: b}", Actions{Stop: true}, false},
		{"stop needs image", "container: {name: a}", Actions{Stop: true}, true},
		{"run needs name", "container: {image: b}", Actions{Run: true}, true},
		{"run-as needs name", "container: {image: b}\ndev: {}", Actions{RunAs: "dev"}, true},
		{"build needs name", "container: {image: b}\ndockerfile: {from: alpine}", Actions{Build: true}, true},
		{"run needs image", "container: {name: a}", Actions{Run: true}, true},
		{"run with container", "container: {name: a, image: b}", Actions{Run: true}, false},
		{"build needs dockerfile", "container: {name: a, image: b}", Actions{Build: true}, true},
		{"build needs from", "container: {name: a, image: b}\ndockerfile: {commands: x}", Actions{Build: true}, true},
		{"build ok", "container: {name: a, image: b}\ndockerfile: {from: alpine}", Actions{Build: true}, false},
		{"run-as needs block", "container: {name: a, image: b}", Actions{RunAs: "dev"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tgt, err := Parse([]byte(tc.doc))
			require.NoError(t, err)

			err = tgt.ValidateFor(tc.actions)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrTargetParse)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
