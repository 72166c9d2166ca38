package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"food-marketplace-api/config"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderComputesTotal(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	itemA := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	itemB := createMenuItem(t, r, partnerToken, restID, "Tiramisu", 5.50, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items": []gin.H{
			{"menu_item_id": itemA, "quantity": 2},
			{"menu_item_id": itemB, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	order := decode(t, w)["order"].(map[string]interface{})
	assert.Equal(t, 21.50, order["total_amount"])
	assert.Equal(t, "pending", order["status"])
	assert.NotEmpty(t, order["reference"])
	assert.Len(t, order["items"].([]interface{}), 2)
}

func TestCreateOrderIgnoresClientPricesButChecksTotal(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	itemA := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	itemB := createMenuItem(t, r, partnerToken, restID, "Tiramisu", 5.50, true)

	// A matching client total is accepted as a cross-check.
	w := doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"total_amount":     21.50,
		"items": []gin.H{
			{"menu_item_id": itemA, "quantity": 2},
			{"menu_item_id": itemB, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A diverging total is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"total_amount":     25.00,
		"items": []gin.H{
			{"menu_item_id": itemA, "quantity": 2},
			{"menu_item_id": itemB, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Total amount mismatch")
}

func TestCreateOrderValidation(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)

	// Empty item list
	w := doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items":            []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing delivery address
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id": restID,
		"phone":         "555-0100",
		"items":         []gin.H{{"menu_item_id": item, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing phone
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"items":            []gin.H{{"menu_item_id": item, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown restaurant
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    9999,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items":            []gin.H{{"menu_item_id": item, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Zero quantity
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items":            []gin.H{{"menu_item_id": item, "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderAtomicRejection(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	otherRestID := createRestaurant(t, r, partnerToken, "Burger Barn")
	good := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	unavailable := createMenuItem(t, r, partnerToken, restID, "Seasonal Special", 12.00, false)
	foreign := createMenuItem(t, r, partnerToken, otherRestID, "Cheeseburger", 9.00, true)

	// One unavailable item rejects the whole order.
	w := doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items": []gin.H{
			{"menu_item_id": good, "quantity": 1},
			{"menu_item_id": unavailable, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not available")

	// One cross-restaurant item rejects the whole order.
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items": []gin.H{
			{"menu_item_id": good, "quantity": 1},
			{"menu_item_id": foreign, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "does not belong")

	// Unknown item likewise.
	w = doJSON(t, r, http.MethodPost, "/api/orders", customerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items": []gin.H{
			{"menu_item_id": good, "quantity": 1},
			{"menu_item_id": 9999, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was persisted.
	var count int64
	config.DB.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count, "no partial order may survive a rejection")
	config.DB.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestOnlyCustomersPlaceOrders(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)

	w := doJSON(t, r, http.MethodPost, "/api/orders", partnerToken, gin.H{
		"restaurant_id":    restID,
		"delivery_address": "42 Elm Street",
		"phone":            "555-0100",
		"items":            []gin.H{{"menu_item_id": item, "quantity": 1}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/orders", "", gin.H{
		"restaurant_id": restID,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderSnapshotInsulatedFromMenuEdits(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	orderID := placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 2}})

	// Reprice and rename the live item.
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/menuitems/%d", item), partnerToken, gin.H{
		"name": "Margherita Deluxe", "price": 99.00,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/orders/%d", orderID), customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := decode(t, w)["order"].(map[string]interface{})
	assert.Equal(t, 16.00, order["total_amount"])
	line := order["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 8.00, line["price"])
	assert.Equal(t, "Margherita", line["name"])
}

func TestOrderStatusHappyPathAndTerminality(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	orderID := placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})

	for _, status := range []string{"confirmed", "preparing", "ready", "delivered"} {
		w := doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "advancing to %s: %s", status, w.Body.String())
	}

	// delivered is terminal for everyone.
	w := doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), customerToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var order models.Order
	require.NoError(t, config.DB.First(&order, orderID).Error)
	assert.Equal(t, models.StatusDelivered, order.Status)
}

func TestOrderStatusSkipsRejected(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	orderID := placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})

	w := doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "pending -> delivered must be rejected")

	w = doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{"status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown status value must be rejected")
}

func TestCustomerCancellation(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)

	// Customer may cancel while pending.
	orderID := placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})
	w := doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), customerToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Cancelled is terminal: the partner cannot confirm afterwards.
	w = doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Once preparation has begun, customer cancellation is forbidden.
	orderID = placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})
	for _, status := range []string{"confirmed", "preparing"} {
		w = doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), customerToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, w.Code, "the owner could still cancel, the customer may not")
}

func TestStrangersCannotTransitionOrViewOrders(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	otherPartnerToken, _ := register(t, r, "rival@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)
	otherCustomerToken, _ := register(t, r, "nosy@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	orderID := placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})
	orderPath := fmt.Sprintf("/api/orders/%d", orderID)

	// Transitions by strangers are forbidden.
	w := doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), otherPartnerToken, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), otherCustomerToken, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Retrieval: customer and owner yes, everyone else no.
	w = doJSON(t, r, http.MethodGet, orderPath, customerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, orderPath, partnerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, orderPath, otherCustomerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodGet, orderPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderListingsAreScoped(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	rivalToken, _ := register(t, r, "rival@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	rivalRestID := createRestaurant(t, r, rivalToken, "Rival Diner")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	rivalItem := createMenuItem(t, r, rivalToken, rivalRestID, "Meatloaf", 11.00, true)

	placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})
	placeOrder(t, r, customerToken, rivalRestID, []gin.H{{"menu_item_id": rivalItem, "quantity": 1}})

	// The customer sees both of their orders.
	w := doJSON(t, r, http.MethodGet, "/api/orders", customerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	// Each partner only sees orders against their own restaurants.
	w = doJSON(t, r, http.MethodGet, "/api/restaurants/orders", partnerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(1), resp["count"])
	orders := resp["orders"].([]interface{})
	assert.Equal(t, float64(restID), orders[0].(map[string]interface{})["restaurant_id"])

	w = doJSON(t, r, http.MethodGet, "/api/restaurants/orders", rivalToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	// A customer has no partner listing; a partner has no customer listing.
	w = doJSON(t, r, http.MethodGet, "/api/restaurants/orders", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/orders", partnerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatusTransitionRecordsHistory(t *testing.T) {
	r := setupRouter(t)
	partnerToken, _ := register(t, r, "owner@example.com", models.RolePartner)
	customerToken, _ := register(t, r, "cust@example.com", models.RoleCustomer)

	restID := createRestaurant(t, r, partnerToken, "Pasta Place")
	item := createMenuItem(t, r, partnerToken, restID, "Margherita", 8.00, true)
	orderID := placeOrder(t, r, customerToken, restID, []gin.H{{"menu_item_id": item, "quantity": 1}})

	w := doJSON(t, r, http.MethodPatch, orderStatusPath(orderID), partnerToken, gin.H{
		"status": "confirmed", "note": "on it",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var history []models.OrderStatusHistory
	require.NoError(t, config.DB.Where("order_id = ?", orderID).Order("id asc").Find(&history).Error)
	require.Len(t, history, 2, "placement plus one transition")
	assert.Equal(t, models.StatusPending, history[0].ToStatus)
	assert.Equal(t, models.StatusPending, history[1].FromStatus)
	assert.Equal(t, models.StatusConfirmed, history[1].ToStatus)
	assert.Equal(t, "on it", history[1].Note)
}
