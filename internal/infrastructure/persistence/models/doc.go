// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Each model offers ToDomain and FromDomain mappers; repositories only ever
// read and write models.
//
// Structure:
//   - base.go: BaseModel shared by every table with an id and timestamps
//   - identity.go: users
//   - catalog.go: products
//   - trade.go: orders and their ordered product references
package models
