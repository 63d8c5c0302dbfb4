package db

// Setting is a key value pair the app keeps for itself, eg. the session key
type Setting struct {
	Key   SettingKey `gorm:"not null; primary_key; auto_increment:false" sql:"default: null"`
	Value string     `sql:"default: null"`
}
