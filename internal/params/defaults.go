package params

import "github.com/UnknownOlympus/trajmap/internal/engine"

// Parameter is one named engine argument with its declared type.
type Parameter struct {
	Name  string            `json:"name"`
	Type  engine.ScalarType `json:"type"`
	Value float64           `json:"value"`
}

// DefaultSchema lists the numeric arguments of mc_run_wrapper in calling order,
// with the defaults shipped to operators.
func DefaultSchema() []Parameter {
	return []Parameter{
		{Name: "run_type", Type: engine.Int, Value: 0},
		{Name: "num_runs", Type: engine.Int, Value: 50},
		{Name: "time_step_main", Type: engine.Float, Value: 1.0},
		{Name: "time_step_reentry", Type: engine.Float, Value: 0.1},
		{Name: "traj_output", Type: engine.Int, Value: 0},
		{Name: "impact_output", Type: engine.Int, Value: 0},
		{Name: "x_aim", Type: engine.Float, Value: 6371e3},
		{Name: "y_aim", Type: engine.Float, Value: 0},
		{Name: "z_aim", Type: engine.Float, Value: 0},
		{Name: "theta_long", Type: engine.Float, Value: 0},
		{Name: "theta_lat", Type: engine.Float, Value: 0},
		{Name: "grav_error", Type: engine.Int, Value: 0},
		{Name: "atm_model", Type: engine.Int, Value: 1},
		{Name: "atm_error", Type: engine.Int, Value: 0},
		{Name: "gnss_nav", Type: engine.Int, Value: 0},
		{Name: "ins_nav", Type: engine.Int, Value: 0},
		{Name: "rv_maneuv", Type: engine.Int, Value: 0},
		{Name: "reentry_vel", Type: engine.Float, Value: 7500},
		{Name: "deflection_time", Type: engine.Float, Value: 5},
		{Name: "rv_type", Type: engine.Int, Value: 0}, // 0 ballistic, 1 maneuverable
		{Name: "initial_x_error", Type: engine.Float, Value: 0},
		{Name: "initial_pos_error", Type: engine.Float, Value: 100},
		{Name: "initial_vel_error", Type: engine.Float, Value: 0.1},
		{Name: "initial_angle_error", Type: engine.Float, Value: 1e-4},
		{Name: "acc_scale_stability", Type: engine.Float, Value: 100},
		{Name: "gyro_bias_stability", Type: engine.Float, Value: 1e-6},
		{Name: "gyro_noise", Type: engine.Float, Value: 1e-6},
		{Name: "gnss_noise", Type: engine.Float, Value: 5},
		{Name: "cl_pert", Type: engine.Float, Value: 0},
		{Name: "step_acc_mag", Type: engine.Float, Value: 0},
		{Name: "step_acc_hgt", Type: engine.Float, Value: 0},
		{Name: "step_acc_dur", Type: engine.Float, Value: 0},
	}
}
