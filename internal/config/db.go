package config

const (
	// EnginePostgres selects the gorm postgres driver and postgres session storage.
	EnginePostgres = "postgres"
	// EngineMySQL selects the gorm mysql driver and mysql session storage.
	EngineMySQL = "mysql"
)

// DB holds the database configuration settings.
type DB struct {
	Engine   string // postgres or mysql
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
