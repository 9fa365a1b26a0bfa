// Package models defines domain entities and persistence interfaces for the vkdrive service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs crossing the API boundary
//   - [TokenPair] : Per-user provider tokens served by the backend token endpoint
//   - [Pagination] : Page metadata for admin listings
//
// 2. Persistent Entities: Database-backed records
//   - [User] : User accounts with role, activation flag and encrypted provider tokens
//   - [Session] : Issued session tokens with expiry
//
// Persistent entities carry Validate methods enforcing the registration
// rules (email format, name length and character set). Password complexity
// is checked before hashing via [ValidatePassword] since entities only
// ever hold the bcrypt hash.
package models
