package seeds

import (
	"gorm.io/gorm"

	"kostku_backend/internals/seeds/tenants"
)

const DefaultTenantSeedFile = "internals/seeds/tenants/data_tenants.json"

func RunAllSeeds(db *gorm.DB, tenantFile string) {
	if tenantFile == "" {
		tenantFile = DefaultTenantSeedFile
	}

	//* Tenants
	tenants.SeedTenantsFromJSON(db, tenantFile)
}
