// Package models contains GORM persistence models mapped to database tables.
// Domain entities stay free of ORM tags; every model converts to and from its
// entity with ToDomain and FromDomain.
//
// Child rows (sale items, payments, campaign recipients) carry tenant_id too
// so a backup can dump every table with a single tenant filter.
package models
