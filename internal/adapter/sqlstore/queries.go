package sqlstore

const selectClimateData = `
	SELECT soil_volume, field_capacity, irrigated,
		drought_before, drought_after,
		control_drought_before, control_drought_after,
		stress_drought_before, stress_drought_after,
		cold_before, cold_after,
		heat_before, heat_after,
		light_before, light_after
	FROM culture_climate_stress
	WHERE culture_id = ? AND flowering_date = ?
`

const columnList = `culture_id, flowering_date, soil_volume, field_capacity, irrigated,
		drought_before, drought_after,
		control_drought_before, control_drought_after,
		stress_drought_before, stress_drought_after,
		cold_before, cold_after,
		heat_before, heat_after,
		light_before, light_after`

const upsertMySQL = `
	INSERT INTO culture_climate_stress (` + columnList + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		soil_volume = VALUES(soil_volume),
		field_capacity = VALUES(field_capacity),
		irrigated = VALUES(irrigated),
		drought_before = VALUES(drought_before),
		drought_after = VALUES(drought_after),
		control_drought_before = VALUES(control_drought_before),
		control_drought_after = VALUES(control_drought_after),
		stress_drought_before = VALUES(stress_drought_before),
		stress_drought_after = VALUES(stress_drought_after),
		cold_before = VALUES(cold_before),
		cold_after = VALUES(cold_after),
		heat_before = VALUES(heat_before),
		heat_after = VALUES(heat_after),
		light_before = VALUES(light_before),
		light_after = VALUES(light_after)
`

const upsertSQLite = `
	INSERT INTO culture_climate_stress (` + columnList + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(culture_id, flowering_date) DO UPDATE SET
		soil_volume = excluded.soil_volume,
		field_capacity = excluded.field_capacity,
		irrigated = excluded.irrigated,
		drought_before = excluded.drought_before,
		drought_after = excluded.drought_after,
		control_drought_before = excluded.control_drought_before,
		control_drought_after = excluded.control_drought_after,
		stress_drought_before = excluded.stress_drought_before,
		stress_drought_after = excluded.stress_drought_after,
		cold_before = excluded.cold_before,
		cold_after = excluded.cold_after,
		heat_before = excluded.heat_before,
		heat_after = excluded.heat_after,
		light_before = excluded.light_before,
		light_after = excluded.light_after
`

const createTableMySQL = `
	CREATE TABLE IF NOT EXISTS culture_climate_stress (
		culture_id INT NOT NULL,
		flowering_date VARCHAR(32) NOT NULL,
		soil_volume DOUBLE NOT NULL,
		field_capacity DOUBLE NOT NULL,
		irrigated BOOLEAN NOT NULL,
		drought_before INT NULL,
		drought_after INT NULL,
		control_drought_before INT NULL,
		control_drought_after INT NULL,
		stress_drought_before INT NULL,
		stress_drought_after INT NULL,
		cold_before INT NOT NULL,
		cold_after INT NOT NULL,
		heat_before INT NOT NULL,
		heat_after INT NOT NULL,
		light_before DOUBLE NOT NULL,
		light_after DOUBLE NOT NULL,
		PRIMARY KEY (culture_id, flowering_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
`

const createTableSQLite = `
	CREATE TABLE IF NOT EXISTS culture_climate_stress (
		culture_id INTEGER NOT NULL,
		flowering_date TEXT NOT NULL,
		soil_volume REAL NOT NULL,
		field_capacity REAL NOT NULL,
		irrigated BOOLEAN NOT NULL,
		drought_before INTEGER,
		drought_after INTEGER,
		control_drought_before INTEGER,
		control_drought_after INTEGER,
		stress_drought_before INTEGER,
		stress_drought_after INTEGER,
		cold_before INTEGER NOT NULL,
		cold_after INTEGER NOT NULL,
		heat_before INTEGER NOT NULL,
		heat_after INTEGER NOT NULL,
		light_before REAL NOT NULL,
		light_after REAL NOT NULL,
		PRIMARY KEY (culture_id, flowering_date)
	)
`
