// Package migrations applies the schema of every bounded context.
package migrations

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	adoptionpostgres "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/persistence/postgres"
	petpostgres "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/persistence/postgres"
	storepostgres "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/persistence/postgres"
	userpostgres "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/persistence/postgres"
)

type step struct {
	name    string
	migrate func(*gorm.DB) error
}

var steps = []step{
	{"pets", petpostgres.Migrate},
	{"users", userpostgres.Migrate},
	{"adoptions", adoptionpostgres.Migrate},
	{"store", storepostgres.Migrate},
}

// Run applies the schema for the bounded contexts in dependency order.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	for _, s := range steps {
		if err := s.migrate(db); err != nil {
			return errors.Wrapf(err, "migrate %s", s.name)
		}
	}
	return nil
}
