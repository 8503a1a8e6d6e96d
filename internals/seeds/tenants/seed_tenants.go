package tenants

import (
	"encoding/json"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kostku_backend/internals/features/tenants/tenants/model"
)

type TenantSeed struct {
	TenantPropertyID uuid.UUID  `json:"tenant_property_id"`
	TenantRoomID     *uuid.UUID `json:"tenant_room_id"`
	TenantFullName   string     `json:"tenant_full_name"`
	TenantPhone      *string    `json:"tenant_phone"`
	TenantEmail      *string    `json:"tenant_email"`
}

// SeedTenantsFromJSON: data demo untuk sandbox; penghuni dengan email yang
// sudah terdaftar di properti yang sama dilewati.
func SeedTenantsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Gagal membaca file JSON: %v", err)
		return
	}

	var seeds []TenantSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		log.Printf("❌ Gagal decode JSON: %v", err)
		return
	}

	inserted := 0
	for _, s := range seeds {
		if s.TenantEmail != nil {
			var n int64
			db.Model(&model.Tenant{}).
				Where("tenant_property_id = ? AND tenant_email = ?", s.TenantPropertyID, *s.TenantEmail).
				Count(&n)
			if n > 0 {
				log.Printf("ℹ️ Tenant %s sudah ada, lewati...", *s.TenantEmail)
				continue
			}
		}

		t := model.Tenant{
			TenantPropertyID: s.TenantPropertyID,
			TenantRoomID:     s.TenantRoomID,
			TenantFullName:   s.TenantFullName,
			TenantPhone:      s.TenantPhone,
			TenantEmail:      s.TenantEmail,
			TenantIsActive:   true,
		}
		if err := db.Create(&t).Error; err != nil {
			log.Printf("❌ Gagal insert tenant %s: %v", s.TenantFullName, err)
			continue
		}
		inserted++
	}
	log.Printf("✅ Seed tenants selesai: %d baru", inserted)
}
