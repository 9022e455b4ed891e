package dig_container

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/garderie/apps/dashboard/web"
	"github.com/trezcool/garderie/core"
	"github.com/trezcool/garderie/services/apiclient"
	"github.com/trezcool/garderie/tests"
)

func TestNew(t *testing.T) {
	conf := testutil.NewConfig("http://api.test/api/")
	c := New(func() *core.Config { return conf })

	err := c.Invoke(func(server *web.Server, api *apiclient.Client, mail core.EmailService) {
		assert.NotNil(t, server)
		assert.Equal(t, "http://api.test/api", api.BaseURL())
		assert.NotNil(t, mail)
	})
	if err != nil {
		t.Fatalf("Invoke() failed: %v", err)
	}
}
