//go:build integration

package integration

import (
	"context"
	"path/filepath"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/startdusk/entityoh/orm"
	"github.com/startdusk/entityoh/orm/internal/test"

	_ "github.com/mattn/go-sqlite3"
)

type Suite struct {
	suite.Suite

	driver string
	dsn    string

	g *orm.Guard
}

func (s *Suite) SetupSuite() {
	if s.dsn == "" {
		s.dsn = "file:" + filepath.Join(s.T().TempDir(), "integration.db")
	}
	g, err := orm.Open(s.driver, s.dsn)
	require.NoError(s.T(), err)
	s.g = g

	for _, ddl := range []string{(&test.User{}).CreateSQL(), (&test.OrderLine{}).CreateSQL()} {
		_, err = s.g.ExecuteNonQuery(context.Background(), orm.Raw(ddl))
		require.NoError(s.T(), err)
	}
}

func (s *Suite) TearDownSuite() {
	require.NoError(s.T(), s.g.Close())
}
