package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&Booth{},
		&VisitLog{},
		&PointLog{},
		&Rating{},
		&Post{},
		&Heart{},
	)
}

// DropTables removes every festival table. Only the test harnesses call it.
func DropTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&Heart{},
		&Post{},
		&Rating{},
		&PointLog{},
		&VisitLog{},
		&Booth{},
		&Account{},
	)
}
