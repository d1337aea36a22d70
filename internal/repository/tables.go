package repository

import "tablekart/internal/listing"

// Listing descriptions of the management resources. Filter and sort keys
// are the public query parameter names.
var (
	restaurantTable = listing.Table{
		Name: "restaurants",
		Columns: []string{"id", "owner_id", "name", "slug", "custom_domain", "description",
			"phone", "address", "currency", "logo_url", "is_active", "created_at", "updated_at"},
		SearchColumns: []string{"name", "slug"},
		FilterColumns: map[string]string{"active": "is_active", "owner": "owner_id"},
		SortColumns:   map[string]string{"name": "name", "createdAt": "created_at"},
		DefaultSort:   "createdAt",
		DefaultDesc:   true,
		DateColumn:    "created_at",
	}

	productTable = listing.Table{
		Name: "products",
		Columns: []string{"id", "restaurant_id", "category_id", "name", "description",
			"image_url", "is_available", "is_archived", "position", "created_at"},
		SearchColumns: []string{"name", "description"},
		FilterColumns: map[string]string{
			"restaurant": "restaurant_id",
			"category":   "category_id",
			"available":  "is_available",
			"archived":   "is_archived",
		},
		SortColumns: map[string]string{"position": "position", "name": "name", "createdAt": "created_at"},
		DefaultSort: "position",
		DateColumn:  "created_at",
	}

	orderTable = listing.Table{
		Name: "orders",
		Columns: []string{"id", "restaurant_id", "customer_id", "customer_name", "customer_phone",
			"delivery_address", "order_type", "status", "notes", "total", "created_at", "updated_at"},
		SearchColumns: []string{"customer_name", "customer_phone"},
		FilterColumns: map[string]string{
			"restaurant": "restaurant_id",
			"status":     "status",
			"type":       "order_type",
			"customer":   "customer_id",
		},
		SortColumns: map[string]string{"createdAt": "created_at", "total": "total", "status": "status"},
		DefaultSort: "createdAt",
		DefaultDesc: true,
		DateColumn:  "created_at",
	}

	customerTable = listing.Table{
		Name: "customers",
		Columns: []string{"id", "restaurant_id", "name", "phone", "email", "address",
			"orders_count", "total_spent", "last_order_at", "created_at"},
		SearchColumns: []string{"name", "phone", "email"},
		FilterColumns: map[string]string{"restaurant": "restaurant_id"},
		SortColumns: map[string]string{
			"name":        "name",
			"createdAt":   "created_at",
			"ordersCount": "orders_count",
			"totalSpent":  "total_spent",
			"lastOrderAt": "last_order_at",
		},
		DefaultSort: "createdAt",
		DefaultDesc: true,
		DateColumn:  "created_at",
	}

	subscriptionTable = listing.Table{
		Name: "subscriptions s JOIN subscription_plans p ON p.id = s.plan_id " +
			"JOIN restaurants r ON r.id = s.restaurant_id",
		Columns: []string{"s.id", "s.restaurant_id", "s.plan_id", "p.name", "s.duration_months",
			"s.status", "s.price", "s.starts_at", "s.ends_at", "s.created_at"},
		SearchColumns: []string{"r.name", "p.name"},
		FilterColumns: map[string]string{
			"restaurant": "s.restaurant_id",
			"status":     "s.status",
			"plan":       "s.plan_id",
		},
		SortColumns: map[string]string{"createdAt": "s.created_at", "endsAt": "s.ends_at"},
		DefaultSort: "createdAt",
		DefaultDesc: true,
		DateColumn:  "s.created_at",
		IDColumn:    "s.id",
	}

	userTable = listing.Table{
		Name:          "users",
		Columns:       []string{"id", "email", "full_name", "role", "created_at"},
		SearchColumns: []string{"email", "full_name"},
		FilterColumns: map[string]string{"role": "role"},
		SortColumns:   map[string]string{"email": "email", "createdAt": "created_at"},
		DefaultSort:   "createdAt",
		DefaultDesc:   true,
		DateColumn:    "created_at",
	}

	ticketTable = listing.Table{
		Name: "support_tickets",
		Columns: []string{"id", "restaurant_id", "user_id", "subject", "message", "priority",
			"status", "response", "created_at", "updated_at"},
		SearchColumns: []string{"subject", "message"},
		FilterColumns: map[string]string{
			"restaurant": "restaurant_id",
			"status":     "status",
			"priority":   "priority",
		},
		SortColumns: map[string]string{"createdAt": "created_at", "updatedAt": "updated_at"},
		DefaultSort: "createdAt",
		DefaultDesc: true,
		DateColumn:  "created_at",
	}
)
