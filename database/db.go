/*
Copyright 2025 Partslane Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/partslane/fulfillment/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn *sql.DB
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	for _, create := range []func(*sql.DB) error{
		createOrderTables,
		createBookingTable,
		createTrackingTables,
		createPaymentTables,
		createNotificationTables,
		createProviderTable,
	} {
		if err := create(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func createOrderTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			tracking_id TEXT NOT NULL UNIQUE,
			buyer_id TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'PENDING',
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			item_id TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL REFERENCES orders(order_id),
			supplier_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INT NOT NULL,
			price BIGINT NOT NULL
		)
	`)
	return err
}

func createBookingTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			id SERIAL PRIMARY KEY,
			booking_id TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			requester_id TEXT NOT NULL,
			provider_id TEXT,
			status TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	return err
}

func createTrackingTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tracking_records (
			id SERIAL PRIMARY KEY,
			tracking_id TEXT NOT NULL UNIQUE,
			subject_id TEXT NOT NULL UNIQUE,
			subject_type TEXT NOT NULL,
			status TEXT NOT NULL,
			assigned_provider_id TEXT,
			current_location TEXT,
			estimated_arrival TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tracking_events (
			id SERIAL PRIMARY KEY,
			event_id TEXT NOT NULL UNIQUE,
			tracking_id TEXT NOT NULL REFERENCES tracking_records(tracking_id),
			status TEXT NOT NULL,
			location TEXT,
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createPaymentTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			id SERIAL PRIMARY KEY,
			payment_id TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL REFERENCES orders(order_id),
			method TEXT NOT NULL,
			gateway_reference TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			verified_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trade_ins (
			id SERIAL PRIMARY KEY,
			trade_in_id TEXT NOT NULL UNIQUE,
			order_id TEXT NOT NULL REFERENCES orders(order_id),
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trade_in_offers (
			id SERIAL PRIMARY KEY,
			offer_id TEXT NOT NULL UNIQUE,
			trade_in_id TEXT NOT NULL REFERENCES trade_ins(trade_in_id),
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createNotificationTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS notifications (
			id SERIAL PRIMARY KEY,
			notification_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			data JSONB,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS device_tokens (
			id SERIAL PRIMARY KEY,
			token_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			platform TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS push_subscriptions (
			id SERIAL PRIMARY KEY,
			subscription_id TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			endpoint TEXT NOT NULL UNIQUE,
			p256dh TEXT NOT NULL,
			auth TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func createProviderTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS providers (
			id SERIAL PRIMARY KEY,
			provider_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			phone TEXT,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}
