package models

// User owns a set of device associations with a per-user display name.
type User struct {
	ID       string
	Email    string
	Username string
	Devices  map[string]string
}

// DecodeUser maps one source user node to its destination shape.
func DecodeUser(id string, raw interface{}) User {
	node := AsMap(raw)
	u := User{
		ID:       id,
		Email:    asString(node["email"]),
		Username: asString(node["username"]),
		Devices:  make(map[string]string),
	}
	for deviceID, name := range AsMap(node["devices"]) {
		u.Devices[deviceID] = asString(name)
	}
	return u
}

// DeviceName returns the user's custom name for a device, if any.
func (u User) DeviceName(deviceID string) (string, bool) {
	name, ok := u.Devices[deviceID]
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (u User) Document() map[string]interface{} {
	devices := make(map[string]interface{}, len(u.Devices))
	for id, name := range u.Devices {
		devices[id] = name
	}
	return map[string]interface{}{
		"email":    u.Email,
		"username": u.Username,
		"devices":  devices,
	}
}
