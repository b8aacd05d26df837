package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/models"
)

// DashboardStats is the at-a-glance rollup shown on the home screen.
type DashboardStats struct {
	RevenueTodayPaise int64 `json:"revenue_today_paise"`
	RevenueMonthPaise int64 `json:"revenue_month_paise"`
	SalesToday        int   `json:"sales_today"`
	SalesMonth        int   `json:"sales_month"`
	PendingApprovals  int   `json:"pending_approvals"`
	OpenEscalations   int   `json:"open_escalations"`
	CustomerCount     int   `json:"customer_count"`
	LowStockProducts  int   `json:"low_stock_products"`
}

type DailyRevenuePoint struct {
	Day          time.Time `json:"day"`
	RevenuePaise int64     `json:"revenue_paise"`
	SaleCount    int       `json:"sale_count"`
}

type PaymentMethodSlice struct {
	Method       models.PaymentMethodType `json:"method"`
	RevenuePaise int64                    `json:"revenue_paise"`
	SaleCount    int                      `json:"sale_count"`
}

type SalespersonRank struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	RevenuePaise int64     `json:"revenue_paise"`
	SaleCount    int       `json:"sale_count"`
}

type SalesAnalytics struct {
	Daily           []DailyRevenuePoint  `json:"daily"`
	ByPaymentMethod []PaymentMethodSlice `json:"by_payment_method"`
	TopSalespeople  []SalespersonRank    `json:"top_salespeople"`
}

type MonthlyCustomerPoint struct {
	Month    time.Time `json:"month"`
	NewCount int       `json:"new_count"`
}

type CustomerSpend struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	TotalPaise int64     `json:"total_paise"`
}

type CustomerAnalytics struct {
	NewPerMonth    []MonthlyCustomerPoint `json:"new_per_month"`
	HighValueCount int                    `json:"high_value_count"`
	TopSpenders    []CustomerSpend        `json:"top_spenders"`
}

type ProductSales struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	UnitsSold    int       `json:"units_sold"`
	RevenuePaise int64     `json:"revenue_paise"`
}

type CategoryStock struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	StockUnits int       `json:"stock_units"`
}

type ProductAnalytics struct {
	TopSellers      []ProductSales  `json:"top_sellers"`
	StockByCategory []CategoryStock `json:"stock_by_category"`
}

// AnalyticsRepository runs the aggregate queries behind GET /analytics.
// All queries are store-scoped and ignore soft-deleted rows.
type AnalyticsRepository interface {
	Dashboard(ctx context.Context, storeID uuid.UUID) (*DashboardStats, error)
	Sales(ctx context.Context, storeID uuid.UUID) (*SalesAnalytics, error)
	Customers(ctx context.Context, storeID uuid.UUID) (*CustomerAnalytics, error)
	Products(ctx context.Context, storeID uuid.UUID) (*ProductAnalytics, error)
}

type analyticsRepo struct {
	db DB
}

func NewAnalyticsRepository(db DB) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) Dashboard(ctx context.Context, storeID uuid.UUID) (*DashboardStats, error) {
	var s DashboardStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE created_at >= date_trunc('day', NOW())), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE created_at >= date_trunc('month', NOW())), 0),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW())),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW()))
		FROM sales
		WHERE store_id=$1 AND deleted_at IS NULL
	`, storeID).Scan(&s.RevenueTodayPaise, &s.RevenueMonthPaise, &s.SalesToday, &s.SalesMonth)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM approval_workflows WHERE store_id=$1 AND status='PENDING'),
			(SELECT COUNT(*) FROM escalations WHERE store_id=$1 AND status IN ('OPEN','IN_PROGRESS')),
			(SELECT COUNT(*) FROM customers WHERE store_id=$1 AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM products WHERE store_id=$1 AND deleted_at IS NULL AND stock_quantity <= 5)
	`, storeID).Scan(&s.PendingApprovals, &s.OpenEscalations, &s.CustomerCount, &s.LowStockProducts)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *analyticsRepo) Sales(ctx context.Context, storeID uuid.UUID) (*SalesAnalytics, error) {
	out := &SalesAnalytics{}

	rows, err := r.db.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day,
		       COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales
		WHERE store_id=$1 AND deleted_at IS NULL
		  AND created_at >= NOW() - INTERVAL '30 days'
		GROUP BY day ORDER BY day
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p DailyRevenuePoint
		if err := rows.Scan(&p.Day, &p.RevenuePaise, &p.SaleCount); err != nil {
			return nil, err
		}
		out.Daily = append(out.Daily, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT payment_method, COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM sales
		WHERE store_id=$1 AND deleted_at IS NULL
		GROUP BY payment_method ORDER BY 2 DESC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p PaymentMethodSlice
		if err := rows.Scan(&p.Method, &p.RevenuePaise, &p.SaleCount); err != nil {
			return nil, err
		}
		out.ByPaymentMethod = append(out.ByPaymentMethod, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT u.id, u.first_name || ' ' || u.last_name, COALESCE(SUM(s.total_amount), 0), COUNT(s.id)
		FROM sales s JOIN users u ON u.id = s.salesperson_id
		WHERE s.store_id=$1 AND s.deleted_at IS NULL
		GROUP BY u.id, u.first_name, u.last_name ORDER BY 3 DESC LIMIT 10
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p SalespersonRank
		if err := rows.Scan(&p.UserID, &p.Name, &p.RevenuePaise, &p.SaleCount); err != nil {
			return nil, err
		}
		out.TopSalespeople = append(out.TopSalespeople, p)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) Customers(ctx context.Context, storeID uuid.UUID) (*CustomerAnalytics, error) {
	out := &CustomerAnalytics{}

	rows, err := r.db.Query(ctx, `
		SELECT date_trunc('month', created_at) AS month, COUNT(*)
		FROM customers
		WHERE store_id=$1 AND deleted_at IS NULL
		  AND created_at >= NOW() - INTERVAL '12 months'
		GROUP BY month ORDER BY month
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p MonthlyCustomerPoint
		if err := rows.Scan(&p.Month, &p.NewCount); err != nil {
			return nil, err
		}
		out.NewPerMonth = append(out.NewPerMonth, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM customers
		WHERE store_id=$1 AND deleted_at IS NULL AND customer_value='HIGH_VALUE'
	`, storeID).Scan(&out.HighValueCount)
	if err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, first_name || ' ' || last_name, total_purchases
		FROM customers
		WHERE store_id=$1 AND deleted_at IS NULL
		ORDER BY total_purchases DESC LIMIT 10
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p CustomerSpend
		if err := rows.Scan(&p.CustomerID, &p.Name, &p.TotalPaise); err != nil {
			return nil, err
		}
		out.TopSpenders = append(out.TopSpenders, p)
	}
	return out, rows.Err()
}

func (r *analyticsRepo) Products(ctx context.Context, storeID uuid.UUID) (*ProductAnalytics, error) {
	out := &ProductAnalytics{}

	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(s.quantity), 0), COALESCE(SUM(s.total_amount), 0)
		FROM sales s JOIN products p ON p.id = s.product_id
		WHERE s.store_id=$1 AND s.deleted_at IS NULL
		GROUP BY p.id, p.name ORDER BY 3 DESC LIMIT 10
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p ProductSales
		if err := rows.Scan(&p.ProductID, &p.Name, &p.UnitsSold, &p.RevenuePaise); err != nil {
			return nil, err
		}
		out.TopSellers = append(out.TopSellers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT c.id, c.name, COALESCE(SUM(p.stock_quantity), 0)
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.store_id=$1 AND p.deleted_at IS NULL
		GROUP BY c.id, c.name ORDER BY c.name
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p CategoryStock
		if err := rows.Scan(&p.CategoryID, &p.Name, &p.StockUnits); err != nil {
			return nil, err
		}
		out.StockByCategory = append(out.StockByCategory, p)
	}
	return out, rows.Err()
}
