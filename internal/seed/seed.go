// Package seed fills an empty database with demo catalog, inventory, and
// order data for local development.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/stockroomlabs/stockroom-backend/internal/orders"
	"github.com/stockroomlabs/stockroom-backend/internal/products"
	"github.com/stockroomlabs/stockroom-backend/pkg/enums"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

type demoProduct struct {
	name        string
	price       float64
	description string
}

var demoCatalog = []struct {
	category    string
	description string
	products    []demoProduct
}{
	{
		category:    "Electronics",
		description: "Electronic devices and accessories",
		products: []demoProduct{
			{"Wireless Headphones", 112.99, "Noise-cancelling wireless headphones"},
			{"Smart Watch", 193.99, "Fitness and health tracking smartwatch"},
			{"Bluetooth Speaker", 72.99, "Portable Bluetooth speaker with bass boost"},
			{"USB-C Charger", 24.95, "Fast charging USB-C power adapter"},
			{"Wireless Mouse", 39.29, "Ergonomic wireless mouse"},
		},
	},
	{
		category:    "Clothing",
		description: "Apparel and fashion items",
		products: []demoProduct{
			{"Men's T-Shirt", 19.51, "Cotton crew neck t-shirt"},
			{"Women's Jeans", 49.66, "Slim fit denim jeans"},
			{"Winter Jacket", 89.22, "Waterproof insulated winter jacket"},
			{"Running Shoes", 79.92, "Lightweight running shoes"},
			{"Baseball Cap", 12.19, "Adjustable cotton baseball cap"},
		},
	},
	{
		category:    "Home & Kitchen",
		description: "Home appliances and kitchenware",
		products: []demoProduct{
			{"Coffee Maker", 69.99, "Programmable drip coffee maker"},
			{"Toaster", 34.99, "2 slice stainless steel toaster"},
			{"Blender", 49.99, "High performance countertop blender"},
			{"Knife Set", 59.99, "8 piece stainless steel knife set"},
			{"Non-stick Pan", 29.99, "10 inch non-stick frying pan"},
		},
	},
	{
		category:    "Books",
		description: "Books and publications",
		products: []demoProduct{
			{"Python Programming", 39.39, "Comprehensive guide to Python programming"},
			{"Data Science Handbook", 49.91, "Essential handbook for data scientists"},
			{"Fiction Bestseller", 24.59, "Award-winning fiction novel"},
			{"Cookbook", 34.99, "Collection of 100 recipes"},
			{"Business Strategy", 29.29, "Business strategy and leadership book"},
		},
	},
	{
		category:    "Toys & Games",
		description: "Toys, games, and entertainment items",
		products: []demoProduct{
			{"Board Game", 29.99, "Family board game"},
			{"LEGO Set", 59.99, "Building blocks set"},
			{"Puzzle", 19.99, "1000 piece jigsaw puzzle"},
			{"Remote Control Car", 19.99, "RC offroad vehicle"},
			{"Action Figure", 64.99, "Collectible action figure"},
		},
	},
}

var marketplaces = []string{"amazon", "walmart", "direct"}

var orderStatuses = []enums.OrderStatus{
	enums.OrderStatusPending,
	enums.OrderStatusProcessing,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
	enums.OrderStatusCancelled,
}

var paymentStatuses = []enums.PaymentStatus{
	enums.PaymentStatusPending,
	enums.PaymentStatusPaid,
	enums.PaymentStatusFailed,
	enums.PaymentStatusRefunded,
}

// Options controls how much demo data the seeder generates.
type Options struct {
	OrderCount int
	Rand       *rand.Rand
}

// Seeder drives the product and order services to build demo state, so seeded
// data obeys exactly the same rules as data created through the API.
type Seeder struct {
	products products.Service
	orders   orders.Service
	logg     *logger.Logger
	opts     Options
}

// New builds a seeder with the required dependencies.
func New(productsSvc products.Service, ordersSvc orders.Service, logg *logger.Logger, opts Options) (*Seeder, error) {
	if productsSvc == nil {
		return nil, fmt.Errorf("products service required")
	}
	if ordersSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.OrderCount <= 0 {
		opts.OrderCount = 100
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Seeder{products: productsSvc, orders: ordersSvc, logg: logg, opts: opts}, nil
}

// Run generates the demo data set. It is a no-op when categories already
// exist.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.products.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("checking existing data: %w", err)
	}
	if len(existing) > 0 {
		s.logg.Info(ctx, "database already seeded, skipping demo data")
		return nil
	}

	s.logg.Info(ctx, "generating demo data")

	type productRef struct {
		id    int64
		price float64
	}
	var refs []productRef

	for _, group := range demoCatalog {
		description := group.description
		category, err := s.products.CreateCategory(ctx, products.CreateCategoryInput{
			Name:        group.category,
			Description: &description,
		})
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", group.category, err)
		}

		for _, item := range group.products {
			desc := item.description
			product, err := s.products.CreateProduct(ctx, products.CreateProductInput{
				SKU:             s.newSKU(group.category, item.name),
				Name:            item.name,
				Description:     &desc,
				Price:           item.price,
				CategoryID:      category.ID,
				InitialQuantity: 5 + s.opts.Rand.Intn(96),
			})
			if err != nil {
				return fmt.Errorf("seeding product %q: %w", item.name, err)
			}
			refs = append(refs, productRef{id: product.ID, price: product.Price})
		}
	}

	discounts := []float64{0, 0, 0, 0.05, 0.1}
	for i := 0; i < s.opts.OrderCount; i++ {
		orderDate := time.Now().UTC().AddDate(0, 0, -(1 + s.opts.Rand.Intn(90)))

		itemCount := 1 + s.opts.Rand.Intn(5)
		subtotal := 0.0
		items := make([]orders.OrderItemInput, 0, itemCount)
		for j := 0; j < itemCount; j++ {
			ref := refs[s.opts.Rand.Intn(len(refs))]
			quantity := 1 + s.opts.Rand.Intn(3)
			subtotal += ref.price * float64(quantity)
			items = append(items, orders.OrderItemInput{
				ProductID: ref.id,
				Quantity:  quantity,
				UnitPrice: ref.price,
			})
		}

		shipping := 5.99
		if subtotal >= 50 {
			shipping = 0
		}

		input := orders.CreateOrderInput{
			OrderDate:     orderDate,
			Status:        orderStatuses[s.opts.Rand.Intn(len(orderStatuses))],
			PaymentStatus: paymentStatuses[s.opts.Rand.Intn(len(paymentStatuses))],
			Tax:           roundCents(subtotal * 0.08),
			ShippingCost:  shipping,
			Discount:      roundCents(subtotal * discounts[s.opts.Rand.Intn(len(discounts))]),
			Marketplace:   marketplaces[s.opts.Rand.Intn(len(marketplaces))],
			Items:         items,
		}
		if _, err := s.orders.CreateOrder(ctx, input); err != nil {
			return fmt.Errorf("seeding order %d: %w", i+1, err)
		}
	}

	s.logg.Info(ctx, "demo data generation complete")
	return nil
}

func (s *Seeder) newSKU(category, product string) string {
	prefix := initials(category)
	mid := initials(product)
	return fmt.Sprintf("%s-%s-%04d", prefix, mid, 1000+s.opts.Rand.Intn(9000))
}

func initials(words string) string {
	out := make([]rune, 0, 4)
	takeNext := true
	for _, r := range words {
		if r == ' ' {
			takeNext = true
			continue
		}
		if takeNext {
			if r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			out = append(out, r)
			takeNext = false
		}
	}
	return string(out)
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
