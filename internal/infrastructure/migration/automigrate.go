package migration

import (
	"kuppi/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.SubjectModel{},
		&models.CourseCardModel{},
		&models.VideoModel{},
		&models.UserProgressModel{},
		&models.PurchaseModel{},
	}
}
