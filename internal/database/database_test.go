package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScyllaClusterAuthenticator(t *testing.T) {
	cluster, err := createScyllaCluster(ScyllaConfig{
		Hosts:    []string{"10.0.0.1"},
		Keyspace: "cloudscale",
		Username: "archiver",
		Password: "pw",
	})
	require.NoError(t, err)

	auth, ok := cluster.Authenticator.(gocql.PasswordAuthenticator)
	require.True(t, ok)
	assert.Equal(t, "archiver", auth.Username)
	assert.Equal(t, "pw", auth.Password)
	assert.Nil(t, cluster.SslOpts)
}

func TestScyllaClusterWithoutCredentials(t *testing.T) {
	cluster, err := createScyllaCluster(ScyllaConfig{Hosts: []string{"10.0.0.1"}, Keyspace: "cloudscale"})
	require.NoError(t, err)
	assert.Nil(t, cluster.Authenticator)
	assert.Nil(t, cluster.SslOpts)
}

func TestScyllaClusterRejectsBadCACert(t *testing.T) {
	_, err := createScyllaCluster(ScyllaConfig{
		Hosts:      []string{"10.0.0.1"},
		CACertPath: filepath.Join(t.TempDir(), "absent.pem"),
	})
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("pas un certificat"), 0o600))
	_, err = createScyllaCluster(ScyllaConfig{Hosts: []string{"10.0.0.1"}, CACertPath: garbage})
	assert.Error(t, err)
}
