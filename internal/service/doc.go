// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the delivery mechanisms
//   - Each service focuses on a specific domain area (persons, decks, cards)
//
// 2. Use Case Implementations:
//   - Coordinate between multiple stores and domain services
//   - Apply transactional boundaries when operations span multiple stores
//   - Enforce visibility and role rules that span multiple domain entities
//
// 3. Error Handling:
//   - Translate domain-specific errors to application-level errors
//   - Provide meaningful error context for API responses
//
// The service layer depends on domain entities and store interfaces, but
// never on specific infrastructure implementations.
package service
