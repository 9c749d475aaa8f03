package internal

// Version is the recipetrans release version
const Version = "0.3.0"
