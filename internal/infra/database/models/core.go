package models

import (
	"time"
)

// Account is an allocated record slot. Data is always the full layout size.
type Account struct {
	Address   string    `json:"address" gorm:"primaryKey;type:text"`
	Kind      string    `json:"kind" gorm:"type:text;not null"`
	Authority string    `json:"authority" gorm:"type:text;not null"`
	Lamports  uint64    `json:"lamports" gorm:"type:bigint;not null"`
	Data      []byte    `json:"data" gorm:"type:bytea;not null"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Wallet struct {
	Address  string    `json:"address" gorm:"primaryKey;type:text"`
	Lamports uint64    `json:"lamports" gorm:"type:bigint;not null;default:0"`
	MDate    time.Time `json:"mdate" gorm:"autoUpdateTime"`
}

type TokenAccount struct {
	Address string    `json:"address" gorm:"primaryKey;type:text"`
	Mint    string    `json:"mint" gorm:"type:text;not null"`
	Owner   string    `json:"owner" gorm:"type:text;not null"`
	Amount  uint64    `json:"amount" gorm:"type:bigint;not null;default:0"`
	Frozen  bool      `json:"frozen" gorm:"type:boolean;not null;default:false"`
	CDate   time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	MDate   time.Time `json:"mdate" gorm:"autoUpdateTime"`
}

type CommitLog struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	Signer   string    `json:"signer" gorm:"type:text;not null"`
	Schema   string    `json:"schema" gorm:"type:text"`
	Document string    `json:"document" gorm:"type:text"`
	Proof    string    `json:"proof" gorm:"type:text"`
	CreateAt time.Time `json:"createAt" gorm:"type:timestamp with time zone"`
	CDate    time.Time `json:"cdate" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
